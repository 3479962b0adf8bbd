package client

import (
	"context"
	"net/http"
	"time"

	"github.com/cdrpl/missions"
)

// Login exchanges credentials for a Session. No credential is attached to the
// request; the server's answer establishes one.
func (c *Client) Login(ctx context.Context, payload missions.Login) missions.Result[*Session, missions.ErrorCode] {
	res, code, ok := c.exchange(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/login",
		body:   payload,
	})
	if !ok {
		return missions.Err[*Session](code)
	}

	session := newSession(res.Cookies(), time.Now())
	discard(res)

	return missions.Ok[*Session, missions.ErrorCode](session)
}

// Signup creates an account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, payload missions.CreateUser) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:     "signup",
		method: http.MethodPost,
		path:   "/user",
		body:   payload,
	})
}
