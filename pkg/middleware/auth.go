package middleware

import (
	"net/http"

	"storefront/pkg/session"
	"storefront/pkg/utils"

	"go.uber.org/zap"
)

// LoadSession puts the signed-in user, if any, into the request context
func LoadSession(sessions *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.Current(r)
			if err != nil {
				// a bare ErrNoSession means no cookie at all
				if err != session.ErrNoSession {
					logger.Debug("Ignoring invalid session cookie", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.Username, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the session role matches.
// Anyone else, anonymous included, is sent to the login page.
func RequireRole(role string, sessions *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := utils.GetRoleFromContext(r.Context())
			if !ok || current != role {
				username, _ := utils.GetUsernameFromContext(r.Context())
				logger.Warn("Role check failed",
					zap.String("required", role),
					zap.String("role", current),
					zap.String("username", username),
					zap.String("path", r.URL.Path))

				sessions.AddFlash(w, r, "Unauthorized access.")
				utils.Redirect(w, r, "/login")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
