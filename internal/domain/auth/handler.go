package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/pkg/response"
	"github.com/euroffersurv/rewards-api/internal/pkg/validator"
)

// CookieConfig is how the session cookie is issued
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{service: service, cookie: cookie}
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, sessionID, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			response.Conflict(w, "Email is already registered")
			return
		}
		log.Error().Err(err).Msg("registration failed")
		response.InternalError(w)
		return
	}

	log.Info().Str("user_id", u.UserID).Msg("account registered")
	h.setSessionCookie(w, sessionID)
	response.Created(w, NewProfileResponse(u))
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, sessionID, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w)
		return
	}

	h.setSessionCookie(w, sessionID)
	response.OK(w, NewProfileResponse(u))
}

// Logout handles POST /api/v1/auth/logout. Logging out without a session is
// not an error; the endpoint is idempotent.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("session delete failed")
		}
	}

	h.clearSessionCookie(w)
	response.OK(w, map[string]string{"message": "Logged out"})
}

// SessionResponse reports whether the request carries a live session
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *ProfileResponse `json:"user,omitempty"`
}

// Session handles GET /api/v1/auth/session. An absent or expired session is
// an ordinary answer here, not an error; the frontend polls this on load.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		response.OK(w, SessionResponse{Authenticated: false})
		return
	}

	u, err := h.service.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		log.Error().Err(err).Msg("session lookup failed")
		response.InternalError(w)
		return
	}
	if u == nil {
		response.OK(w, SessionResponse{Authenticated: false})
		return
	}

	profile := NewProfileResponse(u)
	response.OK(w, SessionResponse{Authenticated: true, User: &profile})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
