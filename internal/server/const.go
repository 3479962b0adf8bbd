package server

import (
	"time"
)

const (
	VERSION           = "0.1.0"       // The current version of the server.
	ENV_FILE          = ".env"        // Default path to the .env file
	MAX_REQ_BODY_SIZE = 1024          // Maximum number of bytes allowed in a request body.
	API_TOKEN_LEN     = 32            // Number of characters in the API token.
	API_TOKEN_TTL     = time.Hour     // Time until the API token expires.
	MAX_PG_CONN       = 10            // Maximum number of open Postgres connections.
	BCRYPT_COST       = 11            // The bcrypt cost used to hash a user's password.
	COOKIE_NAME       = "token"       // Name of the credential cookie.
	MISSION_CAPACITY  = 7             // Maximum number of daily missions per user.
	COMPLETE_EXP      = 2             // Experience earned by completing a mission.
	MAX_LEVEL         = 100           // Levels are capped at this value.
	EXP_TABLE_LEVELS  = MAX_LEVEL - 1 // Levels that have a threshold to the next one.
)

// Daily reset.
const (
	RESET_HOUR   = 20 // UTC hour at which completion flags are cleared (05:00 JST).
	RESET_MINUTE = 0
)

// Rate limiting of the unauthenticated routes.
const (
	AUTH_RATE_PER_SEC = 1
	AUTH_RATE_BURST   = 5
)

const (
	WS_WRITE_TIMOUT      = 10 * time.Second           // Time allowed to write a message to the peer.
	WS_PONG_TIMEOUT      = 60 * time.Second           // Pong must be received before this timout or else the connection will be closed.
	WS_PING_INTERVAL     = (WS_PONG_TIMEOUT * 9) / 10 // Send pings every interval. Must be less than pongWait.
	WS_MAX_MESSAGE_SIZE  = 512                        // Maximum message size allowed from peer.
	WS_READ_BUFFER_SIZE  = 1024
	WS_WRITE_BUFFER_SIZE = 1024
	WS_SEND_BUFFER       = 16
)

// Request context keys
const (
	UserIdCtx ctxKey = iota // The user ID of the authenticated user.
	ReqDtoCtx ctxKey = iota // Used for request DTOs.
)

type ctxKey int // Context key for adding data to the request context.
