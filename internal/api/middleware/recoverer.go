package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/booksaas/booksaas-api/internal/api/shared"
)

// Recoverer turns a panic in a downstream handler into a 500 JSON error response.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			// An upgraded connection has no response to write to.
			if r.Header.Get("Connection") == "Upgrade" {
				return
			}

			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				shared.ErrorResponse{Error: "Internal Server Error"},
				fmt.Errorf("panic: %v", rvr),
				shared.WithLogAttrs(slog.String("stack", string(debug.Stack()))))
		}()

		next.ServeHTTP(w, r)
	})
}
