package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

// Self is the account page.
type Self struct {
	deps Deps
	log  *zap.Logger

	mu    sync.Mutex
	state State
	info  missions.UserInfo
}

func NewSelf(deps Deps) *Self {
	return &Self{deps: deps, log: deps.logger().Named("self")}
}

func (s *Self) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Self) Info() missions.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.info
}

// Load fetches the user info, sending the user to login on failure.
func (s *Self) Load(ctx context.Context) {
	res := s.deps.API.GetUserInfo(ctx, s.deps.Sessions.Session())

	info, ok := res.Value()
	if !ok {
		code, _ := res.Err()
		s.log.Debug("user info", zap.Stringer("code", code))

		s.mu.Lock()
		s.state = StateRedirect
		s.mu.Unlock()

		s.deps.Navigator.Navigate(RouteLogin)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.info = info
	s.state = StateReady
}

// Rename does nothing for an empty name. The page reloads after a rename.
func (s *Self) Rename(ctx context.Context, name string) {
	if name == "" {
		return
	}

	res := s.deps.API.UpdateUser(ctx, s.deps.Sessions.Session(), name)
	if code, failed := res.Err(); failed {
		s.deps.Alerter.Alert(fmt.Sprintf("failed to update: %v", code))
		return
	}

	s.Load(ctx)
}

// DeleteAccount goes to the sign up page whether or not the delete succeeded.
func (s *Self) DeleteAccount(ctx context.Context) {
	res := s.deps.API.DeleteUser(ctx, s.deps.Sessions.Session())

	if code, failed := res.Err(); failed {
		s.deps.Alerter.Alert(fmt.Sprintf("failed to delete the user: %v", code))
	} else if err := s.deps.Sessions.Clear(); err != nil {
		s.log.Warn("clear session", zap.Error(err))
	}

	s.deps.Navigator.Navigate(RouteSignup)
}
