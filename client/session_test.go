package client_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdrpl/missions/client"
)

func TestSessionRoundTripDropsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	session := &client.Session{Cookies: []client.Cookie{
		{Name: client.SessionCookie, Value: "id:fresh", Expires: now.Add(time.Hour)},
		{Name: "old", Value: "stale", Expires: now.Add(-time.Minute)},
		{Name: "plain", Value: "no-expiry"},
	}}

	require.NoError(t, client.SaveSession(path, session))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := client.LoadSession(path, now)
	require.NoError(t, err)
	require.Len(t, loaded.Cookies, 2)
	assert.Equal(t, "id:fresh", loaded.Cookies[0].Value)
	assert.Equal(t, "plain", loaded.Cookies[1].Name)
	assert.True(t, loaded.Valid(now))
	assert.False(t, loaded.Valid(now.Add(2*time.Hour)))
}

func TestLoadSessionMissingFile(t *testing.T) {
	session, err := client.LoadSession(filepath.Join(t.TempDir(), "missing.yaml"), time.Now())

	require.NoError(t, err)
	assert.Empty(t, session.Cookies)
	assert.False(t, session.Valid(time.Now()))
}

func TestRemoveSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	require.NoError(t, client.SaveSession(path, &client.Session{}))
	require.NoError(t, client.RemoveSession(path))
	require.NoError(t, client.RemoveSession(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNilSessionIsInvalid(t *testing.T) {
	var session *client.Session

	assert.False(t, session.Valid(time.Now()))
}
