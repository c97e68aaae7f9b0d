// Package health exposes the liveness probe.
package health

import (
	"net/http"

	"github.com/aanand-mishra/students-web/internal/utils/response"
)

// New returns the GET /health handler. It takes no dependencies on purpose:
// if the process can answer at all, it is alive.
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}
