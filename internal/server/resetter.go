package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

type Broadcaster interface {
	Broadcast(event missions.Event)
}

// Will return today's RESET_HOUR:RESET_MINUTE UTC unless t is already past
// it, in which case tomorrow's. At the reset instant itself t is returned.
func NextResetTime(t time.Time) time.Time {
	t = t.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), RESET_HOUR, RESET_MINUTE, 0, 0, time.UTC)

	if t.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// MissionResetter clears every completion flag once a day.
type MissionResetter struct {
	store       Store
	broadcaster Broadcaster
	log         *zap.Logger
	now         func() time.Time
	after       func(time.Duration) <-chan time.Time
}

func CreateMissionResetter(store Store, broadcaster Broadcaster, log *zap.Logger) *MissionResetter {
	return &MissionResetter{
		store:       store,
		broadcaster: broadcaster,
		log:         log,
		now:         time.Now,
		after:       time.After,
	}
}

// Blocks until ctx is done.
func (mr *MissionResetter) Run(ctx context.Context) {
	var last time.Time

	for {
		next := NextResetTime(mr.now())
		if !next.After(last) {
			next = next.AddDate(0, 0, 1)
		}
		mr.log.Info("next mission reset", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return

		case <-mr.after(next.Sub(mr.now())):
			mr.Reset(ctx)
			last = next
		}
	}
}

func (mr *MissionResetter) Reset(ctx context.Context) {
	count, err := mr.store.ResetMissions(ctx)
	if err != nil {
		mr.log.Error("mission reset", zap.Error(err))
		return
	}

	mr.log.Info("missions reset", zap.Int64("count", count))

	if mr.broadcaster != nil {
		mr.broadcaster.Broadcast(missions.Event{Type: missions.EventMissionsReset})
	}
}
