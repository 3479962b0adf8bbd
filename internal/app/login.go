package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

const loginFailed = "login failed"

type Login struct {
	deps Deps
	log  *zap.Logger

	mu     sync.Mutex
	errMsg string
}

func NewLogin(deps Deps) *Login {
	return &Login{deps: deps, log: deps.logger().Named("login")}
}

// Err is the message shown under the form, empty when there is none.
func (l *Login) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.errMsg
}

func (l *Login) setErr(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.errMsg = msg
}

// Submit logs in and goes home. Returns false when the login failed.
func (l *Login) Submit(ctx context.Context, email string, password string) bool {
	l.setErr("")

	if !login(ctx, l.deps, l.log, email, password) {
		l.setErr(loginFailed)
		return false
	}

	l.deps.Navigator.Navigate(RouteHome)

	return true
}

// Logs in and keeps the session. Shared by the login and signup pages.
func login(ctx context.Context, deps Deps, log *zap.Logger, email string, password string) bool {
	session, ok := deps.API.Login(ctx, missions.Login{Email: email, Password: password}).Value()
	if !ok {
		return false
	}

	if err := deps.Sessions.Store(session); err != nil {
		log.Error("store session", zap.Error(err))
		return false
	}

	return true
}
