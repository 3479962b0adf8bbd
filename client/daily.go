package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cdrpl/missions"
)

func (c *Client) GetMissions(ctx context.Context, s *Session) missions.Result[[]missions.DailyMission, missions.ErrorCode] {
	return fetch[[]missions.DailyMission](ctx, c, request{
		op:      "get missions",
		method:  http.MethodGet,
		path:    "/daily",
		session: s,
	})
}

func (c *Client) CreateMission(ctx context.Context, s *Session, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "create mission",
		method:  http.MethodPost,
		path:    "/daily",
		body:    payload,
		session: s,
	})
}

func (c *Client) UpdateMission(ctx context.Context, s *Session, missionID string, payload missions.DailyMissionInput) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "update mission",
		method:  http.MethodPut,
		path:    "/daily/" + url.PathEscape(missionID),
		body:    payload,
		session: s,
	})
}

func (c *Client) DeleteMission(ctx context.Context, s *Session, missionID string) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "delete mission",
		method:  http.MethodDelete,
		path:    "/daily/" + url.PathEscape(missionID),
		session: s,
	})
}

// CompleteMission marks the mission complete and credits experience. Completing
// a mission twice is decided by the server; callers should not assume it is idempotent.
func (c *Client) CompleteMission(ctx context.Context, s *Session, missionID string) missions.Result[missions.Null, missions.ErrorCode] {
	return exec(ctx, c, request{
		op:      "complete mission",
		method:  http.MethodPut,
		path:    "/daily/complete/" + url.PathEscape(missionID),
		session: s,
	})
}
