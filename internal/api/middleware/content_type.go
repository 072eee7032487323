package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/booksaas/booksaas-api/internal/api/shared"
)

// RequireJSONBody rejects requests that carry a body whose Content-Type is not
// application/json with 415. Bodyless requests pass through.
func RequireJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !strings.EqualFold(mediaType, "application/json") {
			shared.RespondWithError(w, r, http.StatusUnsupportedMediaType,
				"Unsupported Media Type", "Content-Type must be application/json")
			return
		}

		next.ServeHTTP(w, r)
	})
}
