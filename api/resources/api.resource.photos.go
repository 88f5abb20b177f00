// FilePath: api/resources/api.resource.photos.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
)

// PhotoHandlers encapsulates the photo upload/download handlers
type PhotoHandlers struct {
	hubservice *hubservice.HubService
}

const uploadMemoryLimit = 4 << 20

// @Summary Upload a module photo
// @Description Store a captured image and complete a pending photo command
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param moduleId path string true "Module ID"
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.APIError
// @Router /upload_photo/{moduleId} [post]
func (h *PhotoHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)
	moduleID := vars["moduleId"]

	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		respondWithError(w, errors.NewValidationError("invalid multipart body", err).WithRequestID(requestID))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, errors.NewValidationError("missing file field", err).WithRequestID(requestID))
		return
	}
	defer file.Close()

	if err := h.hubservice.FulfillPhoto(r.Context(), moduleID, file); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// @Summary Download a stored photo
// @Tags photos
// @Produce image/jpeg
// @Param name path string true "Photo file name"
// @Success 200 {file} file
// @Failure 404 {object} errors.APIError
// @Router /photos/{name} [get]
// @Security BearerAuth
func (h *PhotoHandlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)
	name := vars["name"]

	if _, err := h.hubservice.Photos.Path(name); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if err := h.hubservice.Photos.Stream(r.Context(), name, w); err != nil {
		nuts.L.Errorf("[PhotoHandler] Failed to stream photo %s: %v", name, err)
	}
}
