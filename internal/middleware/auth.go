package middleware

import (
	"context"
	"net/http"

	"github.com/teamline/unibox/internal/models"
)

// Identity headers set by the upstream auth proxy. The application treats the
// proxy as the opaque source of the current user and role and never performs
// authentication itself.
const (
	UserIDHeader   = "X-User-ID"
	UserNameHeader = "X-User-Name"
	UserRoleHeader = "X-User-Role"
)

const currentUserKey contextKey = "currentUser"

// Auth extracts the current user from the identity headers. Requests without
// an identity are rejected; role parsing falls back to viewer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			writeError(w, r, http.StatusUnauthorized, ErrorCodeUnauthorized, ErrorMessageUnauthorized)
			return
		}

		role := models.Role(r.Header.Get(UserRoleHeader))
		switch role {
		case models.RoleViewer, models.RoleEditor, models.RoleAdmin:
		default:
			role = models.RoleViewer
		}

		user := &models.User{
			ID:   userID,
			Name: r.Header.Get(UserNameHeader),
			Role: role,
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCurrentUser returns the authenticated user, or nil outside Auth.
func GetCurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}

// RequireEditor guards mutating routes behind the editor/admin roles.
func RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetCurrentUser(r.Context())
		if user == nil || !user.Role.CanEdit() {
			writeError(w, r, http.StatusForbidden, ErrorCodeForbidden, ErrorMessageForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
