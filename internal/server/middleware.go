package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cdrpl/missions"
)

func CreateBodyParserMiddleware(validate *validator.Validate, log *zap.Logger) BodyParserMiddleware {
	return BodyParserMiddleware{validate: validate, log: log}
}

type BodyParserMiddleware struct {
	validate *validator.Validate
	log      *zap.Logger
}

// Will only accept reflect types of RequestDTO.
func (bpm BodyParserMiddleware) Middleware(dtotype reflect.Type, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		bytes, err := ReadReqBody(w, r)
		if err != nil {
			ErrResCustom(w, http.StatusBadRequest, missions.CodeInvalidData, err.Error())
			return
		}

		dto := reflect.New(dtotype).Interface().(RequestDTO)
		if err := dto.Deserialize(bytes); err != nil {
			ErrResCustom(w, http.StatusBadRequest, missions.CodeInvalidData, err.Error())
			return
		}

		msg, hasError, err := RunStructValidator(bpm.validate, dto)
		if err != nil {
			bpm.log.Error("validate request", zap.Error(err))
			ErrResSanitize(w, http.StatusInternalServerError, err.Error())
			return
		} else if hasError {
			ErrResCustom(w, http.StatusBadRequest, missions.CodeValidation, msg)
			return
		}

		ctx := context.WithValue(r.Context(), ReqDtoCtx, dto)
		next(w, r.WithContext(ctx), p)
	}
}

func CreateRequireTokenMiddleware(tokens TokenStore, log *zap.Logger) RequireTokenMiddleware {
	return RequireTokenMiddleware{tokens: tokens, log: log}
}

// This middleware will reject requests that don't carry a valid credential cookie.
type RequireTokenMiddleware struct {
	tokens TokenStore
	log    *zap.Logger
}

// Will make sure the credential cookie is valid.
// If authorization fails, an error response will be written.
func (rt RequireTokenMiddleware) Middleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		cookie, err := r.Cookie(COOKIE_NAME)
		if err != nil {
			ErrRes(w, http.StatusUnauthorized, missions.CodeInvalidToken)
			return
		}

		id, token := ParseCookieValue(cookie.Value)

		authorized, err := rt.tokens.Validate(r.Context(), id, token)
		if err != nil {
			rt.log.Error("validate token", zap.Error(err))
			ErrResSanitize(w, http.StatusInternalServerError, err.Error())
			return
		}

		if !authorized {
			ErrRes(w, http.StatusUnauthorized, missions.CodeInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), UserIdCtx, id)
		next(w, r.WithContext(ctx), p)
	}
}

// Limits requests per client IP. Used on the routes that check passwords.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func CreateRateLimitMiddleware(limit rate.Limit, burst int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimitMiddleware) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// forget idle visitors once a minute
	if now.Sub(rl.lastSweep) > time.Minute {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.Allow()
}

func (rl *RateLimitMiddleware) Middleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.allow(ip) {
			ErrRes(w, http.StatusTooManyRequests, missions.CodeTooManyRequests)
			return
		}

		next(w, r, p)
	}
}

// Will allow credentialed requests from origin and answer preflight requests.
func CorsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "OPTIONS, POST, GET, PUT, DELETE")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "3600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Needed by the WebSocket upgrade.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}

	sr.status = http.StatusSwitchingProtocols

	return hijacker.Hijack()
}

// Logs one line per request.
func LoggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
