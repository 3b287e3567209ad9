package auth

import (
	"context"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/auth/domain"
	"github.com/squadpick/squadpick-go/internal/modules/core"
)

// AuthenticationMiddleware resolves the session cookie into a context
// session. Requests without a valid cookie get a 401 before reaching the
// handler.
func AuthenticationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(domain.CookieName)
			if err != nil {
				core.WriteUnauthorized(w, r, map[string]string{"error": "not_authenticated"})
				return
			}

			session, err := domain.SessionFromCookie(cookie)
			if err != nil {
				core.WriteUnauthorized(w, r, map[string]string{"error": "not_authenticated"})
				return
			}

			authContext := context.WithValue(r.Context(), core.SessionContextKey, core.ContextSession{
				SteamID:     session.SteamID,
				DisplayName: session.DisplayName,
				AvatarURL:   session.AvatarURL,
			})
			next.ServeHTTP(w, r.WithContext(authContext))
		})
	}
}
