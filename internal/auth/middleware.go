// Package auth resolves authenticated principals. Session issuance belongs to
// the external identity provider; this service only reads the shared session
// space and attaches the principal to the request context.
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Middleware resolves the bearer token on every request. Requests without a
// resolvable session continue anonymously; route guards decide whether that
// is acceptable.
type Middleware struct {
	Store  *shared.SessionStore
	Logger *slog.Logger
}

// Handler wraps next with session resolution.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := shared.BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := m.Store.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, shared.ErrSessionNotFound) {
				if m.Logger != nil {
					m.Logger.Error("resolve session", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			// Stale or revoked token: proceed anonymously.
			next.ServeHTTP(w, r)
			return
		}
		ctx := shared.ContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
