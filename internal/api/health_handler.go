package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/booksaas/booksaas-api/internal/api/shared"
)

// HealthHandler reports that the process is serving.
func HealthHandler(timeFunc func() time.Time) http.HandlerFunc {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:    "OK",
			Message:   "Book SaaS API is running",
			Timestamp: timeFunc().UTC(),
		})
	}
}

// NotFoundHandler answers requests that match no route, including requests with
// an unsupported method on a known path.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound,
		"Route not found", fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}
