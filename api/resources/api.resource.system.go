// FilePath: api/resources/api.resource.system.go
package resources

import (
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/monitoring"
)

// SystemHandlers serves health and counters
type SystemHandlers struct {
	monitoring *monitoring.Service
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
}

// @Summary Monitoring counters
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /admin/metrics [get]
// @Security BearerAuth
func (h *SystemHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.monitoring.Snapshot())
}
