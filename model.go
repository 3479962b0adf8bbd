package missions

// DailyMission is a user-defined daily task.
type DailyMission struct {
	MissionID   string  `json:"missionId"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsComplete  bool    `json:"isComplete"`
}

// Input returns the editable part of the mission.
func (m DailyMission) Input() DailyMissionInput {
	return DailyMissionInput{Title: m.Title, Description: m.Description}
}

// DailyMissionInput is the create/update payload. The server owns the id and completion flag.
type DailyMissionInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type UserInfo struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Level is computed by the server from the user's experience.
// Remaining is nil once the maximum level is reached.
type Level struct {
	Level            int    `json:"level"`
	ExperiencePoints int64  `json:"experiencePoints"`
	Remaining        *int64 `json:"remaining"`
}

type CreateUser struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ApiError is the body of every failed response.
type ApiError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ApiError) Error() string {
	return e.Message
}

// Event types pushed over the realtime channel.
const (
	EventMissionsChanged = "missions_changed"
	EventMissionsReset   = "missions_reset"
)

// Event notifies a connected client that its missions should be re-fetched.
type Event struct {
	Type      string `json:"type"`
	MissionID string `json:"missionId,omitempty"`
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
