package server

import (
	"io"
	"net/http"
)

func ReadReqBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MAX_REQ_BODY_SIZE)

	return io.ReadAll(r.Body)
}

// Get the user ID from the request.
func GetUserID(r *http.Request) string {
	return r.Context().Value(UserIdCtx).(string)
}

// Get the request data object from the request.
func GetReqDTO(r *http.Request) RequestDTO {
	return r.Context().Value(ReqDtoCtx).(RequestDTO)
}
