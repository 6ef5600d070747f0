package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/errs"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	userRepo      *database.UserRepo
	secret        []byte
	secureCookies bool
}

func newAuthHandler(userRepo *database.UserRepo, secret []byte, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		userRepo:      userRepo,
		secret:        secret,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login verifies the admin credentials and sets the signed session cookie.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Username == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("username and password are required"))
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		// Same response for unknown user and wrong password
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid username or password"))
			return
		}

		token, err := issueSessionToken(h.secret, user.ID, time.Now())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to issue session token")
			h.responder.WriteError(w, errs.NewInternalError("failed to create session"))
			return
		}

		http.SetCookie(w, sessionCookie(token, int(sessionTTL.Seconds()), h.secureCookies))
		h.responder.WriteJSON(w, map[string]interface{}{
			"status":   "success",
			"id":       user.ID,
			"username": user.Username,
		})
	}
}

// logout clears the session cookie.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, sessionCookie("", -1, h.secureCookies))
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "logged out",
		})
	}
}

// me returns the authenticated admin account.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
