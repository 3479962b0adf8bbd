package server

import (
	"encoding/json"
	"strings"

	"github.com/cdrpl/missions"
)

type RequestDTO interface {
	Deserialize([]byte) error
	Sanitize()
}

// Sign up request
type SignUpReq struct {
	UserName string `json:"userName" validate:"required,min=2,max=16"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

func (r *SignUpReq) Deserialize(bytes []byte) error {
	return json.Unmarshal(bytes, r)
}

func (r *SignUpReq) Sanitize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.TrimSpace(r.Email)
	r.Email = strings.ToLower(r.Email)
}

// Sign in request
type SignInReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

func (r *SignInReq) Deserialize(bytes []byte) error {
	return json.Unmarshal(bytes, r)
}

func (r *SignInReq) Sanitize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Email = strings.ToLower(r.Email)
}

// Create and update mission request
type DailyMissionReq struct {
	Title       string  `json:"title" validate:"required,max=64"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (r *DailyMissionReq) Deserialize(bytes []byte) error {
	return json.Unmarshal(bytes, r)
}

// A blank description is stored as null.
func (r *DailyMissionReq) Sanitize() {
	r.Title = strings.TrimSpace(r.Title)

	if r.Description != nil {
		desc := strings.TrimSpace(*r.Description)
		r.Description = missions.StringPtr(desc)
	}
}

func (r *DailyMissionReq) Input() missions.DailyMissionInput {
	return missions.DailyMissionInput{Title: r.Title, Description: r.Description}
}

// Rename request, read from the user_name query parameter.
type UserRenameReq struct {
	UserName string `validate:"required,min=2,max=16"`
}

func (r *UserRenameReq) Sanitize() {
	r.UserName = strings.TrimSpace(r.UserName)
}
