package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

func CreateController(store Store, tokens TokenStore, wsHub *WsHub, log *zap.Logger) Controller {
	return Controller{
		store:    store,
		tokens:   tokens,
		wsHub:    wsHub,
		validate: validator.New(),
		log:      log,
	}
}

type Controller struct {
	store    Store
	tokens   TokenStore
	wsHub    *WsHub
	validate *validator.Validate
	log      *zap.Logger
}

/* App Routes */

func (c Controller) HealthCheck(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	JsonSuccess(w)
}

// Route will return the current server version.
func (c Controller) Version(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	m := map[string]string{
		"server": os.Getenv("SERVER_VERSION"),
	}
	JsonRes(w, m)
}

func (c Controller) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	ErrRes(w, http.StatusMethodNotAllowed, missions.CodeMethodNotAllowed)
}

func (c Controller) NotFound(w http.ResponseWriter, r *http.Request) {
	ErrRes(w, http.StatusNotFound, missions.CodeNotFound)
}

// Writes the sanitized server error and logs the cause.
func (c Controller) serverError(w http.ResponseWriter, op string, err error) {
	c.log.Error(op, zap.Error(err))
	ErrResSanitize(w, http.StatusInternalServerError, err.Error())
}

/* User Routes */

func (c Controller) SignUp(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	req := GetReqDTO(r).(*SignUpReq)

	user, err := CreateUser(req.UserName, req.Email, req.Password)
	if err != nil {
		c.serverError(w, "sign up", err)
		return
	}

	if err := c.store.InsertUser(r.Context(), user); err != nil {
		if errors.Is(err, ErrUserExists) {
			ErrRes(w, http.StatusBadRequest, missions.CodeUserExists)
		} else {
			c.serverError(w, "sign up", err)
		}
		return
	}

	c.log.Info("new user registration", zap.String("user", user.ID))
	StatusRes(w, http.StatusCreated)
}

// Sets the credential cookie on success. The response has no body.
func (c Controller) SignIn(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	req := GetReqDTO(r).(*SignInReq)

	user, err := c.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ErrRes(w, http.StatusNotFound, missions.CodeUserNotFound)
		} else {
			c.serverError(w, "sign in", err)
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		ErrRes(w, http.StatusBadRequest, missions.CodeWrongPassword)
		return
	}

	token, err := c.tokens.Create(r.Context(), user.ID)
	if err != nil {
		c.serverError(w, "sign in", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     COOKIE_NAME,
		Value:    CookieValue(user.ID, token),
		Path:     "/",
		MaxAge:   int(API_TOKEN_TTL.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})

	c.log.Info("user sign in", zap.String("user", user.ID))
	StatusRes(w, http.StatusOK)
}

func (c Controller) UserInfo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	user, err := c.store.FindUser(r.Context(), GetUserID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ErrRes(w, http.StatusNotFound, missions.CodeUserNotFound)
		} else {
			c.serverError(w, "user info", err)
		}
		return
	}

	JsonRes(w, user.Info())
}

// The new name is read from the user_name query parameter.
func (c Controller) UserRename(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)
	req := &UserRenameReq{UserName: r.URL.Query().Get("user_name")}

	msg, hasError, err := RunStructValidator(c.validate, req)
	if err != nil {
		c.serverError(w, "user rename", err)
		return
	} else if hasError {
		ErrResCustom(w, http.StatusBadRequest, missions.CodeValidation, msg)
		return
	}

	if err := c.store.RenameUser(r.Context(), id, req.UserName); err != nil {
		if errors.Is(err, ErrNotFound) {
			ErrRes(w, http.StatusNotFound, missions.CodeUserNotFound)
		} else {
			c.serverError(w, "user rename", err)
		}
		return
	}

	c.log.Info("user rename", zap.String("user", id), zap.String("name", req.UserName))
	StatusRes(w, http.StatusOK)
}

// Will delete the user's data, revoke its token and clear the cookie.
func (c Controller) UserDelete(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)

	if err := c.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			ErrRes(w, http.StatusNotFound, missions.CodeUserNotFound)
		} else {
			c.serverError(w, "user delete", err)
		}
		return
	}

	if err := c.tokens.Revoke(r.Context(), id); err != nil {
		c.log.Warn("revoke token", zap.String("user", id), zap.Error(err))
	}

	http.SetCookie(w, &http.Cookie{Name: COOKIE_NAME, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	c.log.Info("user deleted", zap.String("user", id))
	StatusRes(w, http.StatusNoContent)
}

func (c Controller) Exp(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	exp, err := c.store.FindExp(r.Context(), GetUserID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ErrRes(w, http.StatusNotFound, missions.CodeUserNotFound)
		} else {
			c.serverError(w, "find exp", err)
		}
		return
	}

	JsonRes(w, ToLevel(exp))
}

/* Daily Mission Routes */

// Maps store errors of mission routes to error responses.
func (c Controller) missionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		ErrRes(w, http.StatusNotFound, missions.CodeMissionNotFound)
	case errors.Is(err, ErrCapacity):
		ErrRes(w, http.StatusBadRequest, missions.CodeMissionCapacity)
	case errors.Is(err, ErrAlreadyCompleted):
		ErrRes(w, http.StatusConflict, missions.CodeMissionCompleted)
	default:
		c.serverError(w, op, err)
	}
}

func (c Controller) missionsChanged(userID string, missionID string) {
	if c.wsHub != nil {
		c.wsHub.Publish(userID, missions.Event{Type: missions.EventMissionsChanged, MissionID: missionID})
	}
}

func (c Controller) MissionList(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	ms, err := c.store.FindMissions(r.Context(), GetUserID(r))
	if err != nil {
		c.missionError(w, "mission list", err)
		return
	}

	JsonRes(w, WireMissions(ms))
}

func (c Controller) MissionGet(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	m, err := c.store.FindMission(r.Context(), GetUserID(r), p.ByName("id"))
	if err != nil {
		c.missionError(w, "mission get", err)
		return
	}

	JsonRes(w, m.Wire())
}

func (c Controller) MissionCreate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)
	req := GetReqDTO(r).(*DailyMissionReq)

	m := CreateDailyMission(id, req.Input())

	if err := c.store.InsertMission(r.Context(), m); err != nil {
		c.missionError(w, "mission create", err)
		return
	}

	c.missionsChanged(id, m.ID)
	StatusRes(w, http.StatusCreated)
}

// Will replace the title and description. The completion flag is kept.
func (c Controller) MissionUpdate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)
	req := GetReqDTO(r).(*DailyMissionReq)

	m := DailyMission{ID: p.ByName("id"), UserID: id, Title: req.Title, Description: req.Description}

	if err := c.store.UpdateMission(r.Context(), m); err != nil {
		c.missionError(w, "mission update", err)
		return
	}

	c.missionsChanged(id, m.ID)
	StatusRes(w, http.StatusOK)
}

func (c Controller) MissionDelete(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)
	missionID := p.ByName("id")

	if err := c.store.DeleteMission(r.Context(), id, missionID); err != nil {
		c.missionError(w, "mission delete", err)
		return
	}

	c.missionsChanged(id, missionID)
	StatusRes(w, http.StatusNoContent)
}

// Will mark the mission complete and reward the user COMPLETE_EXP.
func (c Controller) MissionComplete(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id := GetUserID(r)
	missionID := p.ByName("missionId")

	if err := c.store.CompleteMission(r.Context(), id, missionID, COMPLETE_EXP); err != nil {
		c.missionError(w, "mission complete", err)
		return
	}

	c.log.Debug("mission complete", zap.String("user", id), zap.String("mission", missionID))
	c.missionsChanged(id, missionID)
	StatusRes(w, http.StatusOK)
}

// Dispatches PUT /daily/:id/:missionId. Only the complete action exists.
func (c Controller) MissionAction(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	switch p.ByName("id") {
	case "complete":
		c.MissionComplete(w, r, p)
	default:
		c.NotFound(w, r)
	}
}

/* WebSocket */

func (c Controller) WebSocketConnectionHandler(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := c.wsHub.Connect(w, r, GetUserID(r)); err != nil {
		// the upgrader has already written the error response
		c.log.Debug("websocket upgrade", zap.Error(err))
	}
}
