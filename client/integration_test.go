package client_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/client"
	"github.com/cdrpl/missions/internal/server"
)

// Starts the real backend on SQLite with in-memory sessions.
func startBackend(t *testing.T) *client.Client {
	t.Helper()

	store, err := server.CreateSQLiteStore(filepath.Join(t.TempDir(), "missions.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	hub := server.CreateWsHub("", zap.NewNop())
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	controller := server.CreateController(store, server.CreateMemoryTokenStore(), hub, zap.NewNop())
	srv := httptest.NewServer(server.CreateHandler(&controller, "http://localhost:3000"))
	t.Cleanup(srv.Close)

	return client.New(client.Config{BaseURL: srv.URL})
}

func login(t *testing.T, c *client.Client) *client.Session {
	t.Helper()
	ctx := context.Background()

	require.True(t, c.Signup(ctx, missions.CreateUser{UserName: "jane", Email: "jane@example.com", Password: "password"}).IsOk())

	session, ok := c.Login(ctx, missions.Login{Email: "jane@example.com", Password: "password"}).Value()
	require.True(t, ok)
	require.True(t, session.Valid(time.Now()))

	return session
}

func TestMissionLifecycle(t *testing.T) {
	c := startBackend(t)
	session := login(t, c)
	ctx := context.Background()

	require.True(t, c.CreateMission(ctx, session, missions.DailyMissionInput{Title: "Read", Description: nil}).IsOk())

	first, ok := c.GetMissions(ctx, session).Value()
	require.True(t, ok)
	second, ok := c.GetMissions(ctx, session).Value()
	require.True(t, ok)

	require.Len(t, first, 1)
	assert.Equal(t, first, second)

	m := first[0]
	assert.Equal(t, "Read", m.Title)
	assert.Nil(t, m.Description)
	assert.False(t, m.IsComplete)

	require.True(t, c.CompleteMission(ctx, session, m.MissionID).IsOk())

	code, ok := c.CompleteMission(ctx, session, m.MissionID).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeMissionCompleted, code)

	level, ok := c.GetLevel(ctx, session).Value()
	require.True(t, ok)
	assert.Equal(t, int64(2), level.ExperiencePoints)

	require.True(t, c.DeleteMission(ctx, session, m.MissionID).IsOk())

	ms, ok := c.GetMissions(ctx, session).Value()
	require.True(t, ok)
	assert.Empty(t, ms)
}

func TestUserLifecycle(t *testing.T) {
	c := startBackend(t)
	session := login(t, c)
	ctx := context.Background()

	require.True(t, c.UpdateUser(ctx, session, "janet").IsOk())

	info, ok := c.GetUserInfo(ctx, session).Value()
	require.True(t, ok)
	assert.Equal(t, "janet", info.UserName)

	require.True(t, c.DeleteUser(ctx, session).IsOk())

	code, ok := c.GetUserInfo(ctx, session).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeInvalidToken, code)
}

func TestUnauthorizedCall(t *testing.T) {
	c := startBackend(t)

	code, ok := c.GetMissions(context.Background(), nil).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeInvalidToken, code)

	code, ok = c.Login(context.Background(), missions.Login{Email: "nobody@example.com", Password: "password"}).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeUserNotFound, code)
}

func TestSubscribe(t *testing.T) {
	c := startBackend(t)
	session := login(t, c)
	ctx := context.Background()

	code, ok := c.Subscribe(ctx, nil).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeInvalidToken, code)

	sub, ok := c.Subscribe(ctx, session).Value()
	require.True(t, ok)
	defer sub.Close()

	// the hub may register the connection after the handshake returns
	deadline := time.After(5 * time.Second)
	for {
		require.True(t, c.CreateMission(ctx, session, missions.DailyMissionInput{Title: "Read"}).IsOk())

		select {
		case ev, open := <-sub.Events():
			require.True(t, open)
			assert.Equal(t, missions.EventMissionsChanged, ev.Type)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("expect a missions_changed event")
		}
	}
}
