// FilePath: api/resources/api.resource.events.go
package resources

import (
	"net/http"
	"strconv"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/hubservice"
)

// EventHandlers serves the status transition history and its analysis
type EventHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List status events
// @Description Get the transition history ordered by recency
// @Tags events
// @Produce json
// @Param limit query int false "Maximum number of events"
// @Success 200 {array} models.StatusEvent
// @Router /events [get]
// @Security BearerAuth
func (h *EventHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.hubservice.ListEvents(r.Context(), limit)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

// @Summary Event analytics
// @Description Frequency aggregates for transitions into the empty status
// @Tags admin
// @Produce json
// @Success 200 {object} hubservice.Analytics
// @Router /admin/analytics [get]
// @Security BearerAuth
func (h *EventHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	analytics, err := h.hubservice.EventAnalytics(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, analytics)
}
