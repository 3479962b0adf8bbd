package server

import (
	"net/http"
	"reflect"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

func CreateRouter(controller *Controller) *httprouter.Router {
	router := httprouter.New()

	// middleware
	auth := CreateRequireTokenMiddleware(controller.tokens, controller.log).Middleware
	body := CreateBodyParserMiddleware(controller.validate, controller.log).Middleware
	throttle := CreateRateLimitMiddleware(rate.Limit(AUTH_RATE_PER_SEC), AUTH_RATE_BURST).Middleware

	// shorthand reflect TypeOf
	typeOf := reflect.TypeOf

	// app routes
	router.GET("/", controller.HealthCheck)
	router.GET("/version", controller.Version)

	// user routes
	router.POST("/user", throttle(body(typeOf(SignUpReq{}), controller.SignUp)))
	router.POST("/login", throttle(body(typeOf(SignInReq{}), controller.SignIn)))
	router.GET("/user", auth(controller.UserInfo))
	router.PUT("/user", auth(controller.UserRename))
	router.DELETE("/user", auth(controller.UserDelete))
	router.GET("/exp", auth(controller.Exp))

	// daily mission routes
	router.GET("/daily", auth(controller.MissionList))
	router.POST("/daily", auth(body(typeOf(DailyMissionReq{}), controller.MissionCreate)))
	router.GET("/daily/:id", auth(controller.MissionGet))
	router.PUT("/daily/:id", auth(body(typeOf(DailyMissionReq{}), controller.MissionUpdate)))
	router.DELETE("/daily/:id", auth(controller.MissionDelete))

	// httprouter cannot register /daily/complete/:missionId next to /daily/:id
	router.PUT("/daily/:id/:missionId", auth(controller.MissionAction))

	// WebSocket upgrade route
	router.GET("/ws", auth(controller.WebSocketConnectionHandler))

	// method not allowed
	router.MethodNotAllowed = http.HandlerFunc(controller.MethodNotAllowed)

	// not found handler
	router.NotFound = http.HandlerFunc(controller.NotFound)

	return router
}

// Wraps the router with CORS headers for allowOrigin and request logging.
func CreateHandler(controller *Controller, allowOrigin string) http.Handler {
	return LoggingMiddleware(controller.log, CorsMiddleware(allowOrigin, CreateRouter(controller)))
}
