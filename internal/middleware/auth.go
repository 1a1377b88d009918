package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/model"
)

const SessionCookieName = "finfam_session"

// SessionReader looks up live sessions by token.
type SessionReader interface {
	GetByToken(token string) (*model.Session, error)
}

// UserReader loads users for session-authenticated requests.
type UserReader interface {
	GetByID(id int64) (*model.User, error)
}

// RequireAuth authenticates a request from either the session cookie
// or a bearer JWT and populates AuthContext. The bearer path is
// stateless: the claims carry id, email, and role, so no database
// read happens. Unauthenticated requests get a 401 JSON envelope.
func RequireAuth(sessions SessionReader, users UserReader, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ac, ok := fromSession(r, sessions, users); ok {
				next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
				return
			}
			if ac, ok := fromBearer(r, jwtSecret); ok {
				next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
				return
			}
			writeUnauthorized(w)
		})
	}
}

func fromSession(r *http.Request, sessions SessionReader, users UserReader) (auth.AuthContext, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return auth.AuthContext{}, false
	}

	sess, err := sessions.GetByToken(cookie.Value)
	if err != nil || sess == nil {
		return auth.AuthContext{}, false
	}

	user, err := users.GetByID(sess.UserID)
	if err != nil || user == nil {
		return auth.AuthContext{}, false
	}

	return auth.AuthContext{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sess.ID,
	}, true
}

func fromBearer(r *http.Request, jwtSecret string) (auth.AuthContext, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.AuthContext{}, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return auth.AuthContext{}, false
	}

	claims, err := auth.VerifyToken(strings.TrimSpace(parts[1]), jwtSecret)
	if err != nil || claims.SubjectID() == 0 {
		return auth.AuthContext{}, false
	}

	return auth.AuthContext{
		UserID: claims.SubjectID(),
		Email:  claims.Email,
		Role:   claims.Role,
	}, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  http.StatusUnauthorized,
		"message": "authentication required",
	})
}
