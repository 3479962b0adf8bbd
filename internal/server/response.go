package server

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

// Will write a successful json response. The data must be a valid target for JSON encoding.
func JsonRes(w http.ResponseWriter, data interface{}) {
	WriteJsonRes(w, http.StatusOK, data)
}

// Writes a json response {"status":0}
func JsonSuccess(w http.ResponseWriter) {
	WriteJsonRes(w, http.StatusOK, map[string]int{"status": 0})
}

// Writes a response without a body.
func StatusRes(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// Writes an error response using the default message of the error code.
func ErrRes(w http.ResponseWriter, status int, code missions.ErrorCode) {
	msg := code.Text()
	if msg == "" {
		msg = http.StatusText(status)
	}

	ErrResCustom(w, status, code, msg)
}

// Writes an error response using a custom message.
func ErrResCustom(w http.ResponseWriter, status int, code missions.ErrorCode, msg string) {
	WriteJsonRes(w, status, missions.ApiError{Code: code, Message: msg})
}

// Will write a server error response with a custom message.
// If the ENV env var is set to production the message will be replaced with a standard one based on the HTTP code.
func ErrResSanitize(w http.ResponseWriter, status int, msg string) {
	e := missions.ApiError{Code: missions.CodeServer}

	if os.Getenv("ENV") == "production" {
		e.Message = http.StatusText(status)
	} else {
		e.Message = msg
	}

	WriteJsonRes(w, status, e)
}

// Writes a json response.
func WriteJsonRes(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Add("Content-Type", "application/json")

	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if err := encoder.Encode(data); err != nil {
		zap.L().Warn("failed to write json response", zap.Error(err))
	}
}
