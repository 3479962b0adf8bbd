package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/client"
	"github.com/cdrpl/missions/internal/app"
)

// fakeAPI answers every call from its fields and records the calls made.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	loginErr    missions.ErrorCode
	signupErr   missions.ErrorCode
	missionsErr missions.ErrorCode
	levelErr    missions.ErrorCode
	mutateErr   missions.ErrorCode
	userErr     missions.ErrorCode

	missions []missions.DailyMission
	level    missions.Level
	info     missions.UserInfo
	created  []missions.DailyMissionInput
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func null(code missions.ErrorCode) missions.Result[missions.Null, missions.ErrorCode] {
	if code != 0 {
		return missions.Err[missions.Null](code)
	}

	return missions.Ok[missions.Null, missions.ErrorCode](missions.Null{})
}

func (f *fakeAPI) Login(ctx context.Context, payload missions.Login) missions.Result[*client.Session, missions.ErrorCode] {
	f.record("login")
	if f.loginErr != 0 {
		return missions.Err[*client.Session](f.loginErr)
	}

	session := &client.Session{Cookies: []client.Cookie{{Name: client.SessionCookie, Value: "id:token"}}}
	return missions.Ok[*client.Session, missions.ErrorCode](session)
}

func (f *fakeAPI) Signup(ctx context.Context, payload missions.CreateUser) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("signup")
	return null(f.signupErr)
}

func (f *fakeAPI) GetMissions(ctx context.Context, s *client.Session) missions.Result[[]missions.DailyMission, missions.ErrorCode] {
	f.record("get missions")
	if f.missionsErr != 0 {
		return missions.Err[[]missions.DailyMission](f.missionsErr)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return missions.Ok[[]missions.DailyMission, missions.ErrorCode](append([]missions.DailyMission(nil), f.missions...))
}

func (f *fakeAPI) CreateMission(ctx context.Context, s *client.Session, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("create mission")

	f.mu.Lock()
	f.created = append(f.created, payload)
	f.mu.Unlock()

	return null(f.mutateErr)
}

func (f *fakeAPI) UpdateMission(ctx context.Context, s *client.Session, missionID string, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("update mission")
	return null(f.mutateErr)
}

func (f *fakeAPI) DeleteMission(ctx context.Context, s *client.Session, missionID string) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("delete mission")
	return null(f.mutateErr)
}

func (f *fakeAPI) CompleteMission(ctx context.Context, s *client.Session, missionID string) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("complete mission")
	return null(f.mutateErr)
}

func (f *fakeAPI) GetUserInfo(ctx context.Context, s *client.Session) missions.Result[missions.UserInfo, missions.ErrorCode] {
	f.record("get user info")
	if f.userErr != 0 {
		return missions.Err[missions.UserInfo](f.userErr)
	}

	return missions.Ok[missions.UserInfo, missions.ErrorCode](f.info)
}

func (f *fakeAPI) UpdateUser(ctx context.Context, s *client.Session, name string) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("update user")
	if f.mutateErr == 0 {
		f.info.UserName = name
	}

	return null(f.mutateErr)
}

func (f *fakeAPI) DeleteUser(ctx context.Context, s *client.Session) missions.Result[missions.Null, missions.ErrorCode] {
	f.record("delete user")
	return null(f.mutateErr)
}

func (f *fakeAPI) GetLevel(ctx context.Context, s *client.Session) missions.Result[missions.Level, missions.ErrorCode] {
	f.record("get level")
	if f.levelErr != 0 {
		return missions.Err[missions.Level](f.levelErr)
	}

	return missions.Ok[missions.Level, missions.ErrorCode](f.level)
}

type recorder struct {
	mu     sync.Mutex
	routes []app.Route
	alerts []string
}

func (r *recorder) Navigate(route app.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes = append(r.routes, route)
}

func (r *recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append(r.alerts, msg)
}

type memorySessions struct {
	session *client.Session
	cleared bool
}

func (m *memorySessions) Session() *client.Session { return m.session }

func (m *memorySessions) Store(s *client.Session) error {
	m.session = s
	return nil
}

func (m *memorySessions) Clear() error {
	m.session = nil
	m.cleared = true
	return nil
}

func newDeps(api *fakeAPI) (app.Deps, *recorder, *memorySessions) {
	rec := &recorder{}
	sessions := &memorySessions{}

	return app.Deps{API: api, Sessions: sessions, Navigator: rec, Alerter: rec}, rec, sessions
}

// navigatorFunc lets a test observe the page while it navigates.
type navigatorFunc func(route app.Route)

func (f navigatorFunc) Navigate(route app.Route) { f(route) }

// Fails the test when fn does not return within a second.
func finishes(t *testing.T, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("call did not return")
	}
}
