package auth

import (
	"net/http"
	"strings"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Middleware resolves the Authorization bearer token and stores the acting
// member in the request context. Requests without a valid token are rejected.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			actor, err := service.Resolve(r.Context(), token)
			if err != nil {
				httpx.RespondError(w, ErrInvalidCredentials)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
