package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cdrpl/missions"
)

// MissionForm is the add-mission form. A blank description is sent as null.
type MissionForm struct {
	Title       string
	Description string
}

func (f MissionForm) Input() missions.DailyMissionInput {
	return missions.DailyMissionInput{
		Title:       strings.TrimSpace(f.Title),
		Description: missions.StringPtr(strings.TrimSpace(f.Description)),
	}
}

// Home is the missions page: the mission list, the add form and the status.
type Home struct {
	deps Deps
	log  *zap.Logger

	mu       sync.Mutex
	state    State
	missions []missions.DailyMission
	level    *missions.Level
	form     MissionForm
}

func NewHome(deps Deps) *Home {
	return &Home{deps: deps, log: deps.logger().Named("home")}
}

func (h *Home) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// Missions in server order.
func (h *Home) Missions() []missions.DailyMission {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]missions.DailyMission(nil), h.missions...)
}

// Level returns nil until the status has been fetched.
func (h *Home) Level() *missions.Level {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.level == nil {
		return nil
	}

	level := *h.level
	return &level
}

func (h *Home) Form() MissionForm {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.form
}

func (h *Home) SetForm(form MissionForm) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.form = form
}

// Navigate runs without mu so the navigator may read the page.
func (h *Home) redirect(route Route) {
	h.mu.Lock()
	h.state = StateRedirect
	h.mu.Unlock()

	h.deps.Navigator.Navigate(route)
}

// Load fetches the missions and the level concurrently. Either failure sends
// the user to the login page; the page is ready once both have arrived.
func (h *Home) Load(ctx context.Context) {
	h.mu.Lock()
	h.state = StateLoading
	h.mu.Unlock()

	session := h.deps.Sessions.Session()

	var g errgroup.Group
	var missionsOk, levelOk bool

	g.Go(func() error {
		ms, ok := h.deps.API.GetMissions(ctx, session).Value()
		if !ok {
			h.redirect(RouteLogin)
			return nil
		}

		h.mu.Lock()
		h.missions = ms
		h.mu.Unlock()
		missionsOk = true

		return nil
	})

	g.Go(func() error {
		level, ok := h.deps.API.GetLevel(ctx, session).Value()
		if !ok {
			h.redirect(RouteLogin)
			return nil
		}

		h.mu.Lock()
		h.level = &level
		h.mu.Unlock()
		levelOk = true

		return nil
	})

	g.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()

	if missionsOk && levelOk {
		h.state = StateReady
	}
}

func (h *Home) ready() error {
	if h.State() != StateReady {
		return ErrNotReady
	}

	return nil
}

// RefreshMissions re-fetches the list. A failure sends the user to login.
func (h *Home) RefreshMissions(ctx context.Context) {
	ms, ok := h.deps.API.GetMissions(ctx, h.deps.Sessions.Session()).Value()
	if !ok {
		h.redirect(RouteLogin)
		return
	}

	h.mu.Lock()
	h.missions = ms
	h.mu.Unlock()
}

// RefreshLevel re-fetches the status. A failure is reported with an alert.
func (h *Home) RefreshLevel(ctx context.Context) {
	res := h.deps.API.GetLevel(ctx, h.deps.Sessions.Session())

	level, ok := res.Value()
	if !ok {
		code, _ := res.Err()
		h.deps.Alerter.Alert(fmt.Sprintf("communication failed: %v", code))
		return
	}

	h.mu.Lock()
	h.level = &level
	h.mu.Unlock()
}

// AddMission submits the add form. The form is cleared and the list
// re-fetched whether or not the server accepted the mission.
func (h *Home) AddMission(ctx context.Context) error {
	if err := h.ready(); err != nil {
		return err
	}

	input := h.Form().Input()
	if input.Title == "" {
		return ErrEmptyTitle
	}

	res := h.deps.API.CreateMission(ctx, h.deps.Sessions.Session(), input)
	if code, failed := res.Err(); failed {
		h.log.Warn("add mission", zap.Stringer("code", code))
		h.deps.Alerter.Alert(fmt.Sprintf("failed to add the mission: %v", code))
	}

	h.SetForm(MissionForm{})
	h.RefreshMissions(ctx)

	return nil
}

// EditMission saves the edit form. On failure nothing is re-fetched.
func (h *Home) EditMission(ctx context.Context, form EditForm) error {
	if err := h.ready(); err != nil {
		return err
	}

	input := form.Input()
	if input.Title == "" {
		return ErrEmptyTitle
	}

	res := h.deps.API.UpdateMission(ctx, h.deps.Sessions.Session(), form.MissionID, input)
	if code, failed := res.Err(); failed {
		h.deps.Alerter.Alert(fmt.Sprintf("failed to edit the mission: %v", code))
		return nil
	}

	h.RefreshMissions(ctx)

	return nil
}

func (h *Home) DeleteMission(ctx context.Context, missionID string) error {
	if err := h.ready(); err != nil {
		return err
	}

	res := h.deps.API.DeleteMission(ctx, h.deps.Sessions.Session(), missionID)
	if code, failed := res.Err(); failed {
		h.deps.Alerter.Alert(fmt.Sprintf("failed to delete the mission: %v", code))
		return nil
	}

	h.RefreshMissions(ctx)

	return nil
}

// CompleteMission refuses missions already complete locally. Both the list
// and the level are re-fetched afterwards, even after a failure.
func (h *Home) CompleteMission(ctx context.Context, missionID string) error {
	if err := h.ready(); err != nil {
		return err
	}

	for _, m := range h.Missions() {
		if m.MissionID == missionID && m.IsComplete {
			return ErrAlreadyComplete
		}
	}

	res := h.deps.API.CompleteMission(ctx, h.deps.Sessions.Session(), missionID)
	if code, failed := res.Err(); failed {
		h.deps.Alerter.Alert(fmt.Sprintf("communication failed: %v", code))
	}

	h.RefreshMissions(ctx)
	h.RefreshLevel(ctx)

	return nil
}
