package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cdrpl/missions"
)

func (c *Client) GetUserInfo(ctx context.Context, s *Session) missions.Result[missions.UserInfo, missions.ErrorCode] {
	return fetch[missions.UserInfo](ctx, c, request{
		op:      "get user info",
		method:  http.MethodGet,
		path:    "/user",
		session: s,
	})
}

// UpdateUser renames the user. The new name travels in the query string.
func (c *Client) UpdateUser(ctx context.Context, s *Session, name string) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "update user",
		method:  http.MethodPut,
		path:    "/user",
		query:   url.Values{"user_name": {name}},
		session: s,
	})
}

func (c *Client) DeleteUser(ctx context.Context, s *Session) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "delete user",
		method:  http.MethodDelete,
		path:    "/user",
		session: s,
	})
}

func (c *Client) GetLevel(ctx context.Context, s *Session) missions.Result[missions.Level, missions.ErrorCode] {
	return fetch[missions.Level](ctx, c, request{
		op:      "get level",
		method:  http.MethodGet,
		path:    "/exp",
		session: s,
	})
}
