// FilePath: api/resources/api.resource.recipients.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
)

// RecipientHandlers encapsulates the operator-facing recipient CRUD
type RecipientHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List recipients
// @Tags admin
// @Produce json
// @Success 200 {array} models.Recipient
// @Router /admin/recipients [get]
// @Security BearerAuth
func (h *RecipientHandlers) ListRecipients(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	recipients, err := h.hubservice.ListRecipients(r.Context())
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, recipients)
}

type createRecipientRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	ChatID   string `json:"chat_id"`
}

// @Summary Register a recipient
// @Tags admin
// @Accept json
// @Produce json
// @Param recipient body createRecipientRequest true "Recipient details"
// @Success 201 {object} models.Recipient
// @Failure 400 {object} errors.APIError
// @Router /admin/recipients [post]
// @Security BearerAuth
func (h *RecipientHandlers) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req createRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	recipient := &models.Recipient{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		ChatID:   req.ChatID,
	}
	if err := h.hubservice.CreateRecipient(r.Context(), recipient); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, recipient)
}

// PermissionsForm is the admin dashboard form granting capabilities.
// Checkbox semantics: the browser sends "on" for a ticked box and
// omits the field entirely for an unticked one, which revokes.
type PermissionsForm struct {
	RecipientID     string `schema:"user_id,required"`
	CanToggleLight  string `schema:"perm_light"`
	CanRequestPhoto string `schema:"perm_photo"`
}

func checkboxOn(value string) bool {
	return value == "on" || value == "true" || value == "1"
}

// @Summary Update recipient permissions
// @Tags admin
// @Accept x-www-form-urlencoded
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /admin/permissions [post]
// @Security BearerAuth
func (h *RecipientHandlers) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form", err).WithRequestID(requestID))
		return
	}

	var form PermissionsForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, errors.NewValidationError("invalid permissions form", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.UpdatePermissions(r.Context(), form.RecipientID, checkboxOn(form.CanToggleLight), checkboxOn(form.CanRequestPhoto)); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Delete a recipient
// @Tags admin
// @Param id path string true "Recipient ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /admin/recipients/{id} [delete]
// @Security BearerAuth
func (h *RecipientHandlers) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteRecipient(r.Context(), vars["id"]); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
