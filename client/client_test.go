package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/client"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.New(client.Config{BaseURL: server.URL + "/"})
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c := client.New(client.Config{BaseURL: server.URL})
	server.Close()

	res := c.GetMissions(context.Background(), nil)

	assert.False(t, res.IsOk())
	code, ok := res.Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeNetwork, code)

	login := c.Login(context.Background(), missions.Login{Email: "a@example.com", Password: "password"})
	code, _ = login.Err()
	assert.Equal(t, missions.CodeNetwork, code)
}

func TestCanceledContextIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, ok := c.DeleteUser(ctx, nil).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeNetwork, code)
}

func TestErrorBodyCarriesCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":1,"message":"bad"}`)
	})

	res := c.Login(context.Background(), missions.Login{Email: "a@example.com", Password: "password"})

	code, ok := res.Err()
	require.True(t, ok)
	assert.Equal(t, missions.ErrorCode(1), code)
}

func TestMalformedErrorBodyIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})

	code, ok := c.GetLevel(context.Background(), nil).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeNetwork, code)
}

func TestMalformedSuccessBodyIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"userId":`)
	})

	code, ok := c.GetUserInfo(context.Background(), nil).Err()
	require.True(t, ok)
	assert.Equal(t, missions.CodeNetwork, code)
}

func TestEmptyBodyContractIsNotParsed(t *testing.T) {
	bodies := []string{"", "not json at all", `{"anything":true}`}

	for _, body := range bodies {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})

		res := c.CreateMission(context.Background(), nil, missions.DailyMissionInput{Title: "Read"})

		v, ok := res.Value()
		assert.True(t, ok, "body %q", body)
		assert.Equal(t, missions.Null{}, v)
	}
}

func TestRequestShape(t *testing.T) {
	type seen struct {
		method string
		path   string
		query  string
		cookie string
		ctype  string
		body   string
	}

	var got seen
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cookie, _ := r.Cookie(client.SessionCookie)

		got = seen{
			method: r.Method,
			path:   r.URL.EscapedPath(),
			query:  r.URL.Query().Get("user_name"),
			ctype:  r.Header.Get("Content-Type"),
			body:   string(body),
		}
		if cookie != nil {
			got.cookie = cookie.Value
		}

		w.WriteHeader(http.StatusNoContent)
	})

	session := &client.Session{Cookies: []client.Cookie{{Name: client.SessionCookie, Value: "id:secret"}}}
	ctx := context.Background()

	require.True(t, c.UpdateUser(ctx, session, "Jane Doe&x=1").IsOk())
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/user", got.path)
	assert.Equal(t, "Jane Doe&x=1", got.query)
	assert.Equal(t, "id:secret", got.cookie)
	assert.Empty(t, got.body)

	require.True(t, c.UpdateMission(ctx, session, "a/b", missions.DailyMissionInput{Title: "Read"}).IsOk())
	assert.Equal(t, "/daily/a%2Fb", got.path)
	assert.Equal(t, "application/json", got.ctype)
	assert.JSONEq(t, `{"title":"Read","description":null}`, got.body)

	require.True(t, c.CompleteMission(ctx, session, "m1").IsOk())
	assert.Equal(t, "/daily/complete/m1", got.path)

	require.True(t, c.DeleteMission(ctx, session, "m1").IsOk())
	assert.Equal(t, http.MethodDelete, got.method)

	// no session, no cookie
	require.True(t, c.Signup(ctx, missions.CreateUser{UserName: "jane", Email: "jane@example.com", Password: "password"}).IsOk())
	assert.Equal(t, "/user", got.path)
	assert.Empty(t, got.cookie)
	assert.JSONEq(t, `{"userName":"jane","email":"jane@example.com","password":"password"}`, got.body)
}

func TestLoginReturnsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookie, Value: "id:secret", MaxAge: 3600, HttpOnly: true})
	})

	res := c.Login(context.Background(), missions.Login{Email: "a@example.com", Password: "password"})

	session, ok := res.Value()
	require.True(t, ok)
	require.Len(t, session.Cookies, 1)
	assert.Equal(t, "id:secret", session.Cookies[0].Value)
	assert.False(t, session.Cookies[0].Expires.IsZero())
}

func TestDecodedBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/daily":
			io.WriteString(w, `[{"missionId":"m1","userId":"u1","title":"Read","description":null,"isComplete":false}]`)
		case "/exp":
			io.WriteString(w, `{"level":100,"experiencePoints":10000,"remaining":null}`)
		case "/user":
			io.WriteString(w, `{"userId":"u1","userName":"jane"}`)
		}
	})
	ctx := context.Background()

	ms, ok := c.GetMissions(ctx, nil).Value()
	require.True(t, ok)
	assert.Equal(t, []missions.DailyMission{{MissionID: "m1", UserID: "u1", Title: "Read"}}, ms)

	level, ok := c.GetLevel(ctx, nil).Value()
	require.True(t, ok)
	assert.Equal(t, 100, level.Level)
	assert.Nil(t, level.Remaining)

	info, ok := c.GetUserInfo(ctx, nil).Value()
	require.True(t, ok)
	assert.Equal(t, missions.UserInfo{UserID: "u1", UserName: "jane"}, info)
}
