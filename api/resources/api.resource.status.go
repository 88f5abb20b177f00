// FilePath: api/resources/api.resource.status.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
)

// StatusHandlers serves the device-facing status push endpoint
type StatusHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Push a module status report
// @Description Apply one status push and return the pending command view
// @Tags status
// @Accept json
// @Produce json
// @Param push body models.StatusPush true "Status report"
// @Success 200 {object} models.CommandView
// @Failure 400 {object} errors.APIError
// @Router /status [post]
func (h *StatusHandlers) PushStatus(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var push models.StatusPush
	if err := json.NewDecoder(r.Body).Decode(&push); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	view, err := h.hubservice.PushStatus(r.Context(), push)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}
