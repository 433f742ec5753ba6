package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type contextKey string

const UserIDContextKey contextKey = "user_id"

// Visitor assigns every browser a stable anonymous identifier. It is the only
// code that reads or writes the session; everything downstream receives the
// identifier as a plain string.
type Visitor struct {
	sessions *scs.SessionManager
}

// NewVisitor creates a Visitor middleware. The session manager's LoadAndSave
// must run before it.
func NewVisitor(sm *scs.SessionManager) *Visitor {
	return &Visitor{sessions: sm}
}

// Identify loads the visitor's identifier from the session, issuing a new
// UUID when there is none, and stores it on the request context.
func (v *Visitor) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := v.sessions.GetString(r.Context(), SessionUserIDKey)
		if userID == "" {
			userID = uuid.New().String()
			v.sessions.Put(r.Context(), SessionUserIDKey, userID)
		}
		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the visitor identifier set by Identify, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDContextKey).(string)
	return id
}
