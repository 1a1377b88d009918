package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/natan23f3/finfam/internal/auth"
	"github.com/natan23f3/finfam/internal/model"
)

// FamilyLister resolves which families a user can see. Satisfied by
// *store.FamilyStore.
type FamilyLister interface {
	ListForUser(userID int64) ([]model.Family, error)
}

// Handler upgrades authenticated requests to WebSocket connections and
// runs them as hub clients. It must be mounted behind the auth
// middleware; requests without an AuthContext are rejected.
func Handler(hub *Hub, families FamilyLister, corsOrigin string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		list, err := families.ListForUser(ac.UserID)
		if err != nil {
			logger.Error("list families for ws client", "error", err, "user_id", ac.UserID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		familyIDs := make([]int64, 0, len(list))
		for _, f := range list {
			familyIDs = append(familyIDs, f.ID)
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns(corsOrigin),
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, familyIDs, ac.Role == model.RoleAdmin)
		client.Run(r.Context())
	}
}

// The Accept options want host patterns, not full origins.
func originPatterns(corsOrigin string) []string {
	if corsOrigin == "" {
		return nil
	}
	for _, scheme := range []string{"http://", "https://"} {
		if trimmed := strings.TrimPrefix(corsOrigin, scheme); trimmed != corsOrigin {
			return []string{trimmed}
		}
	}
	return []string{corsOrigin}
}
