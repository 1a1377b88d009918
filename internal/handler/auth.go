package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/middleware"
	"github.com/natan23f3/finfam/internal/model"
	"github.com/natan23f3/finfam/internal/validate"
)

// AuthConfig carries the token and cookie settings the auth endpoints
// need.
type AuthConfig struct {
	JWTSecret    string
	JWTExpiresIn time.Duration
	SecureCookie bool
}

type AuthHandler struct {
	users    UserStore
	sessions SessionStore
	cfg      AuthConfig
	logger   *slog.Logger
}

func NewAuthHandler(users UserStore, sessions SessionStore, cfg AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, cfg: cfg, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	errs := validate.Errors{}
	name, ok := validate.Name(req.Name)
	if !ok {
		errs.Add("name", "name must be at least 2 characters")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		errs.Add("email", "email is invalid")
	}
	if !validate.Password(req.Password) {
		errs.Add("password", "password must be at least 8 characters")
	}
	role, ok := validate.Role(req.Role)
	if !ok {
		errs.Add("role", "role must be admin or user")
	}
	if !errs.OK() {
		writeValidation(w, errs)
		return
	}

	existing, err := h.users.GetByEmail(email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		// 401, not 409; clients depend on this status
		writeError(w, http.StatusUnauthorized, "email already in use")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.users.Create(name, email, hash, role)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, ok := h.establishSession(w, user)
	if !ok {
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	email, emailOK := validate.Email(req.Email)
	if !emailOK || req.Password == "" {
		// Same generic answer as a failed match; no field is singled out
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user, err := h.users.GetByEmail(email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, ok := h.establishSession(w, user)
	if !ok {
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok && ac.SessionID != 0 {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err, "session_id", ac.SessionID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	h.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.users.GetByID(ac.UserID)
	if err != nil {
		h.logger.Error("me lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// establishSession creates the DB session, sets the cookie, and signs
// the JWT. On failure it has already written the 500 response.
func (h *AuthHandler) establishSession(w http.ResponseWriter, user *model.User) (string, bool) {
	sess, err := h.sessions.Create(user.ID, h.cfg.JWTExpiresIn)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	token, _, err := auth.GenerateToken(user.ID, user.Email, user.Role, h.cfg.JWTSecret, h.cfg.JWTExpiresIn)
	if err != nil {
		h.logger.Error("sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	return token, true
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
