package middleware

import (
	"errors"
	"net/http"

	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/response"
	"github.com/freshchoice/storefront/pkg/session"
)

// RequireSession resolves the session cookie before the handler runs. A
// missing, unknown or expired session is a 401 and the handler never runs.
func RequireSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := m.Token(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}

			userID, err := m.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperr.ErrUnauthenticated) {
					m.ClearCookie(w)
				}
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalSession attaches the user id when a valid session cookie is sent.
// Requests without one continue anonymously.
func OptionalSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := m.Token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := m.Resolve(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(session.WithUserID(r.Context(), userID))
			case errors.Is(err, apperr.ErrUnauthenticated):
				m.ClearCookie(w)
			default:
				response.Fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
