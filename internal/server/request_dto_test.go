package server_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/cdrpl/missions/internal/server"
)

func TestSignUpReqValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		req    SignUpReq
		expect string
	}{
		{SignUpReq{UserName: "user", Email: "user@example.com", Password: "password"}, ""},
		{SignUpReq{UserName: "", Email: "user@example.com", Password: "password"}, "username is required"},
		{SignUpReq{UserName: "u", Email: "user@example.com", Password: "password"}, "username minimum length of 2"},
		{SignUpReq{UserName: "user", Email: "not-an-email", Password: "password"}, "email is invalid"},
		{SignUpReq{UserName: "user", Email: "user@example.com", Password: "short"}, "password minimum length of 8"},
	}

	for _, test := range tests {
		req := test.req
		msg, hasError, err := RunStructValidator(validate, &req)
		if err != nil {
			t.Fatal(err)
		}

		if hasError != (test.expect != "") {
			t.Errorf("%+v: expect hasError %v, received: %v", test.req, test.expect != "", hasError)
		}

		if msg != test.expect {
			t.Errorf("expect message %q, received: %q", test.expect, msg)
		}
	}
}

func TestSignUpReqSanitize(t *testing.T) {
	req := SignUpReq{UserName: "  user ", Email: " USER@Example.com "}
	req.Sanitize()

	if req.UserName != "user" {
		t.Errorf("expect user name %q, received: %q", "user", req.UserName)
	}

	if req.Email != "user@example.com" {
		t.Errorf("expect email %q, received: %q", "user@example.com", req.Email)
	}
}

func TestDailyMissionReqSanitize(t *testing.T) {
	blank := "   "
	req := DailyMissionReq{Title: " Read ", Description: &blank}
	req.Sanitize()

	if req.Title != "Read" {
		t.Errorf("expect title %q, received: %q", "Read", req.Title)
	}

	if req.Description != nil {
		t.Errorf("expect blank description to become nil, received: %q", *req.Description)
	}

	desc := " ten pages "
	req = DailyMissionReq{Title: "Read", Description: &desc}
	req.Sanitize()

	if req.Description == nil || *req.Description != "ten pages" {
		t.Errorf("expect description %q, received: %v", "ten pages", req.Description)
	}
}

func TestDailyMissionReqDeserialize(t *testing.T) {
	var req DailyMissionReq

	if err := req.Deserialize([]byte(`{"title":"Read","description":null}`)); err != nil {
		t.Fatal(err)
	}

	input := req.Input()
	if input.Title != "Read" || input.Description != nil {
		t.Errorf("expect {Read <nil>}, received: %+v", input)
	}

	if err := req.Deserialize([]byte(`{"title":`)); err == nil {
		t.Error("expect an error for malformed JSON")
	}
}

func TestDailyMissionReqValidation(t *testing.T) {
	validate := validator.New()

	req := DailyMissionReq{Title: "  "}
	msg, hasError, err := RunStructValidator(validate, &req)
	if err != nil {
		t.Fatal(err)
	}

	if !hasError || msg != "title is required" {
		t.Errorf("expect title is required, received: %q", msg)
	}
}

func TestValidationErrMsg(t *testing.T) {
	if msg := ValidationErrMsg("Title", "max", "64"); msg != "title maximum length of 64" {
		t.Errorf("unexpected message: %v", msg)
	}

	if msg := ValidationErrMsg("Title", "uuid", ""); msg != "no error message for validation type uuid" {
		t.Errorf("unexpected message: %v", msg)
	}
}
