// Package app holds the page controllers of the daily missions front end.
// A controller owns the state of one page and drives the API client in
// response to user actions; rendering is left to the caller.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/client"
)

// Route names a page.
type Route string

const (
	RouteHome   Route = "/"
	RouteLogin  Route = "/login"
	RouteSignup Route = "/signup"
	RouteSelf   Route = "/self"
)

// State of a page that loads remote data.
type State int

const (
	StateLoading State = iota
	StateReady
	StateRedirect
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRedirect:
		return "redirect"
	}

	return "unknown"
}

var (
	ErrNotReady        = errors.New("page is not ready")
	ErrEmptyTitle      = errors.New("mission title is required")
	ErrAlreadyComplete = errors.New("mission is already complete")
)

// Navigator moves the front end to another page.
type Navigator interface {
	Navigate(route Route)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// API is the subset of the client the controllers call.
type API interface {
	Login(ctx context.Context, payload missions.Login) missions.Result[*client.Session, missions.ErrorCode]
	Signup(ctx context.Context, payload missions.CreateUser) missions.Result[missions.Null, missions.ErrorCode]
	GetMissions(ctx context.Context, s *client.Session) missions.Result[[]missions.DailyMission, missions.ErrorCode]
	CreateMission(ctx context.Context, s *client.Session, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode]
	UpdateMission(ctx context.Context, s *client.Session, missionID string, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode]
	DeleteMission(ctx context.Context, s *client.Session, missionID string) missions.Result[missions.Null, missions.ErrorCode]
	CompleteMission(ctx context.Context, s *client.Session, missionID string) missions.Result[missions.Null, missions.ErrorCode]
	GetUserInfo(ctx context.Context, s *client.Session) missions.Result[missions.UserInfo, missions.ErrorCode]
	UpdateUser(ctx context.Context, s *client.Session, name string) missions.Result[missions.Null, missions.ErrorCode]
	DeleteUser(ctx context.Context, s *client.Session) missions.Result[missions.Null, missions.ErrorCode]
	GetLevel(ctx context.Context, s *client.Session) missions.Result[missions.Level, missions.ErrorCode]
}

var _ API = (*client.Client)(nil)

// SessionStore keeps the credential between calls, the way a browser keeps
// its cookie jar.
type SessionStore interface {
	Session() *client.Session
	Store(s *client.Session) error
	Clear() error
}

// FileSessionStore persists the session in a YAML file.
type FileSessionStore struct {
	mu      sync.Mutex
	path    string
	session *client.Session
}

var _ SessionStore = (*FileSessionStore)(nil)

func NewFileSessionStore(path string) (*FileSessionStore, error) {
	session, err := client.LoadSession(path, time.Now())
	if err != nil {
		return nil, err
	}

	return &FileSessionStore{path: path, session: session}, nil
}

func (f *FileSessionStore) Session() *client.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.session
}

func (f *FileSessionStore) Store(s *client.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := client.SaveSession(f.path, s); err != nil {
		return err
	}

	f.session = s

	return nil
}

func (f *FileSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.session = &client.Session{}

	return client.RemoveSession(f.path)
}

// Deps are shared by every controller.
type Deps struct {
	API       API
	Sessions  SessionStore
	Navigator Navigator
	Alerter   Alerter
	Log       *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}

	return d.Log
}
