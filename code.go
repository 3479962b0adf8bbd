package missions

import "fmt"

// ErrorCode identifies why a call failed. Positive values are defined by the
// server; CodeNetwork is reserved for requests that never got an answer.
type ErrorCode int

const (
	CodeNetwork ErrorCode = -1 // The request could not complete.
)

// Authentication codes.
const (
	CodeDataMismatch  ErrorCode = 100
	CodeInvalidData   ErrorCode = 101
	CodeInvalidToken  ErrorCode = 102
	CodeWrongPassword ErrorCode = 103
	CodeServer        ErrorCode = 104
	CodeTokenExpired  ErrorCode = 105
	CodeUserNotFound  ErrorCode = 106
)

// Domain codes.
const (
	CodeValidation       ErrorCode = 200
	CodeUserExists       ErrorCode = 201
	CodeMissionNotFound  ErrorCode = 202
	CodeMissionCapacity  ErrorCode = 203
	CodeMissionCompleted ErrorCode = 204
)

// Routing codes mirror their HTTP status.
const (
	CodeNotFound         ErrorCode = 404
	CodeMethodNotAllowed ErrorCode = 405
	CodeTooManyRequests  ErrorCode = 429
)

var codeText = map[ErrorCode]string{
	CodeNetwork:          "Network error",
	CodeDataMismatch:     "Data mismatch",
	CodeInvalidData:      "Invalid data",
	CodeInvalidToken:     "Invalid token",
	CodeWrongPassword:    "Wrong password",
	CodeServer:           "Server error",
	CodeTokenExpired:     "Token expired",
	CodeUserNotFound:     "User not found",
	CodeValidation:       "Validation failed",
	CodeUserExists:       "User already exists",
	CodeMissionNotFound:  "Mission not found",
	CodeMissionCapacity:  "Mission capacity reached",
	CodeMissionCompleted: "Mission already complete",
	CodeNotFound:         "Not Found",
	CodeMethodNotAllowed: "Method Not Allowed",
	CodeTooManyRequests:  "Too Many Requests",
}

// Text returns a short description of the code, or "" when unknown.
func (c ErrorCode) Text() string {
	return codeText[c]
}

func (c ErrorCode) String() string {
	if text, ok := codeText[c]; ok {
		return fmt.Sprintf("%s (code %d)", text, int(c))
	}

	return fmt.Sprintf("code %d", int(c))
}
