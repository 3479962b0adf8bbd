package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

const unexpectedError = "an unexpected error occurred"

type Signup struct {
	deps Deps
	log  *zap.Logger

	mu     sync.Mutex
	errMsg string
}

func NewSignup(deps Deps) *Signup {
	return &Signup{deps: deps, log: deps.logger().Named("signup")}
}

func (s *Signup) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errMsg
}

func (s *Signup) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = msg
}

// Submit creates the account then logs in with the same credentials. A
// failed login after a successful sign up sends the user to the login page.
func (s *Signup) Submit(ctx context.Context, userName string, email string, password string) {
	s.setErr("")

	res := s.deps.API.Signup(ctx, missions.CreateUser{UserName: userName, Email: email, Password: password})

	code, failed := res.Err()
	if !failed {
		if login(ctx, s.deps, s.log, email, password) {
			s.deps.Navigator.Navigate(RouteHome)
		} else {
			s.deps.Navigator.Navigate(RouteLogin)
		}
		return
	}

	if code == 0 {
		s.setErr(unexpectedError)
		return
	}

	s.setErr(code.String())
}
