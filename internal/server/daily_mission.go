package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/cdrpl/missions"
)

// Model of the daily_missions table
type DailyMission struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	IsComplete  bool
	CreatedAt   time.Time
}

// Create a daily mission with a new ID owned by userID.
func CreateDailyMission(userID string, input missions.DailyMissionInput) DailyMission {
	return DailyMission{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now(),
	}
}

func (m DailyMission) Wire() missions.DailyMission {
	return missions.DailyMission{
		MissionID:   m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		IsComplete:  m.IsComplete,
	}
}

func WireMissions(ms []DailyMission) []missions.DailyMission {
	out := make([]missions.DailyMission, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Wire())
	}

	return out
}
