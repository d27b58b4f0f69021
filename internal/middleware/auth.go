package middleware

import (
	"net/http"
	"strings"

	"grievance-portal/internal/models"
	"grievance-portal/internal/utils"

	"github.com/rs/zerolog"
)

const SessionCookie = "session"

// Authenticator resolves a session token into an actor.
type Authenticator interface {
	Authenticate(token string) (models.Actor, error)
}

// WithAuth attaches the caller to the request context when a valid token is
// present. Requests without one pass through anonymously; handlers decide.
func WithAuth(log zerolog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read JWT from Authorization: Bearer or cookie "session"
			var tok string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			} else if c, err := r.Cookie(SessionCookie); err == nil {
				tok = c.Value
			}

			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := auth.Authenticate(tok)
			if err != nil {
				log.Debug().Err(err).Msg("rejected session token")
				// clear broken/expired cookie so it stops being sent
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithActor(r.Context(), actor)))
		})
	}
}
