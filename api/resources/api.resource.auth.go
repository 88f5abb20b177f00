// FilePath: api/resources/api.resource.auth.go
package resources

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/auth"
	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
	"github.com/luzhub/luzhub/internal/repository"
)

// AuthHandlers issues and revokes session tokens
type AuthHandlers struct {
	hubservice *hubservice.HubService
	sessions   auth.SessionStore
	admin      config.AdminConfig
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	Identity models.Identity `json:"identity"`
}

// @Summary Log in
// @Description Exchange credentials for a bearer session token. A
// request without a username is checked against the operator password.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errors.APIError
// @Router /login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	var identity models.Identity
	if req.Username == "" {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.admin.Password)) != 1 {
			respondWithError(w, errors.NewAuthError("invalid credentials", nil).WithRequestID(requestID))
			return
		}
		identity = models.Identity{ID: "admin", Name: "Operator", Admin: true}
	} else {
		var err error
		identity, err = h.hubservice.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			respondWithAPIError(w, err, requestID)
			return
		}
	}

	token, err := h.sessions.Create(r.Context(), identity)
	if err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Token: token, Identity: identity})
}

// @Summary Log out
// @Tags auth
// @Success 204 "No Content"
// @Router /logout [post]
// @Security BearerAuth
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			nuts.L.Warnf("[Auth] Failed to delete session: %v", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// TokenForm is the admin dashboard form swapping the bot token. The
// polling loop picks the new value up on its next cycle.
type TokenForm struct {
	TelegramToken string `schema:"telegram_token,required"`
}

// @Summary Update the bot transport token
// @Tags admin
// @Accept x-www-form-urlencoded
// @Success 204 "No Content"
// @Failure 400 {object} errors.APIError
// @Router /admin/token [post]
// @Security BearerAuth
func (h *AuthHandlers) UpdateToken(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form", err).WithRequestID(requestID))
		return
	}

	var form TokenForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, errors.NewValidationError("invalid token form", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.Settings.Set(r.Context(), repository.KeyTelegramToken, form.TelegramToken); err != nil {
		respondWithAPIError(w, err, requestID)
		return
	}

	nuts.L.Infof("[Auth] Bot transport token updated")
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	if parts := strings.Split(r.Header.Get("Authorization"), " "); len(parts) == 2 {
		return parts[1]
	}
	return ""
}
