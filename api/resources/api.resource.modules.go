// FilePath: api/resources/api.resource.modules.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/api/middleware"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
)

// ModuleHandlers encapsulates the module-related HTTP handlers
type ModuleHandlers struct {
	hubservice *hubservice.HubService
}

var formDecoder = schema.NewDecoder()

// @Summary List modules
// @Description Get snapshots of all known modules
// @Tags modules
// @Produce json
// @Success 200 {array} models.Module
// @Failure 401 {object} errors.APIError
// @Router /modulos [get]
// @Security BearerAuth
func (h *ModuleHandlers) ListModules(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	modules, err := h.hubservice.ListModules(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, modules)
}

// @Summary Get a module by ID
// @Tags modules
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} models.Module
// @Failure 404 {object} errors.APIError
// @Router /modulos/{id} [get]
// @Security BearerAuth
func (h *ModuleHandlers) GetModule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	module, err := h.hubservice.GetModule(r.Context(), vars["id"])
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, module)
}

// @Summary Delete a module
// @Description Delete a module and all its associated data
// @Tags modules
// @Param id path string true "Module ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /modulos/{id} [delete]
// @Security BearerAuth
func (h *ModuleHandlers) DeleteModule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteModule(r.Context(), vars["id"]); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type lightRequest struct {
	Action string `json:"action"`
}

// @Summary Control a module light
// @Description Force the relay on/off/toggle or return it to auto mode
// @Tags modules
// @Accept json
// @Param id path string true "Module ID"
// @Param action body lightRequest true "Light action"
// @Success 204 "No Content"
// @Failure 403 {object} errors.APIError
// @Router /modulos/{id}/light [post]
// @Security BearerAuth
func (h *ModuleHandlers) SetLight(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	identity := middleware.IdentityFrom(r.Context())
	if err := h.hubservice.Authorize(*identity, models.CapToggleLight); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	var req lightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SetLight(r.Context(), vars["id"], req.Action); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Request a photo capture
// @Description Arm the photo command; the module captures on its next poll
// @Tags modules
// @Param id path string true "Module ID"
// @Success 204 "No Content"
// @Failure 403 {object} errors.APIError
// @Router /modulos/{id}/photo [post]
// @Security BearerAuth
func (h *ModuleHandlers) RequestPhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	identity := middleware.IdentityFrom(r.Context())
	if err := h.hubservice.Authorize(*identity, models.CapRequestPhoto); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	if err := h.hubservice.RequestPhoto(r.Context(), vars["id"], identity.ChatID); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ThresholdForm is the admin dashboard form adjusting the relay
// trigger level of one module.
type ThresholdForm struct {
	ModuleID  string `schema:"modulo_id,required"`
	Threshold int    `schema:"threshold,required"`
}

// @Summary Update a module light threshold
// @Tags admin
// @Accept x-www-form-urlencoded
// @Success 204 "No Content"
// @Failure 400 {object} errors.APIError
// @Router /admin/threshold [post]
// @Security BearerAuth
func (h *ModuleHandlers) UpdateThreshold(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form", err).WithRequestID(requestID))
		return
	}

	var form ThresholdForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, errors.NewValidationError("invalid threshold form", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SetThreshold(r.Context(), form.ModuleID, form.Threshold); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

// respondWithAPIError preserves service error codes and wraps anything
// else as internal.
func respondWithAPIError(w http.ResponseWriter, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("unexpected error", err).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
