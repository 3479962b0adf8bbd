package server

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("row not found")
	ErrUserExists       = errors.New("user already exists")
	ErrCapacity         = errors.New("daily mission capacity reached")
	ErrAlreadyCompleted = errors.New("daily mission already complete")
)

// Store persists users, their daily missions and their experience.
// Implementations scope every mission query by the owning user.
type Store interface {
	// Will insert the user along with its experience row in one transaction.
	InsertUser(ctx context.Context, user User) error
	FindUser(ctx context.Context, id string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	RenameUser(ctx context.Context, id string, name string) error
	// Will delete the user, its missions and its experience.
	DeleteUser(ctx context.Context, id string) error

	// Will fail with ErrCapacity when the user already owns MISSION_CAPACITY missions.
	InsertMission(ctx context.Context, mission DailyMission) error
	FindMission(ctx context.Context, userID string, missionID string) (DailyMission, error)
	// Missions are returned in creation order.
	FindMissions(ctx context.Context, userID string) ([]DailyMission, error)
	UpdateMission(ctx context.Context, mission DailyMission) error
	DeleteMission(ctx context.Context, userID string, missionID string) error
	// Will set the completion flag and add exp to the user in one transaction.
	CompleteMission(ctx context.Context, userID string, missionID string, exp int64) error
	// Will clear every completion flag. Returns the number of missions reset.
	ResetMissions(ctx context.Context) (int64, error)

	FindExp(ctx context.Context, userID string) (int64, error)

	Close()
}

// Row timestamps are stored in UTC rounded to the second.
func now() time.Time {
	return time.Now().UTC().Round(time.Second)
}
