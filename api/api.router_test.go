// FilePath: api/api.router_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
	"github.com/luzhub/luzhub/internal/monitoring"
	"github.com/luzhub/luzhub/internal/repository"
	"github.com/luzhub/luzhub/internal/repository/files"
	"github.com/luzhub/luzhub/internal/repository/postgres"
)

const adminPassword = "op-secret"

// fakeSessions keeps session tokens in a map instead of redis.
type fakeSessions struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]models.Identity
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]models.Identity)}
}

func (s *fakeSessions) Create(ctx context.Context, identity models.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.tokens[token] = identity
	return token, nil
}

func (s *fakeSessions) Get(ctx context.Context, token string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.tokens[token]
	if !ok {
		return nil, errors.NewAuthError("session not found", nil)
	}
	return &identity, nil
}

func (s *fakeSessions) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) BroadcastStatus(moduleID, newStatus string) {}
func (noopNotifier) DeliverPhoto(chatID, path string)           {}

func newTestRouter(t *testing.T) (*Router, *hubservice.HubService) {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	photos, err := files.NewPhotoRepository(files.Config{
		BasePath:    t.TempDir(),
		MaxFileSize: 1 << 20,
	})
	if err != nil {
		t.Fatalf("NewPhotoRepository() error = %v", err)
	}

	svc := hubservice.New(
		postgres.NewModuleRepository(db),
		postgres.NewStatusEventRepository(db),
		postgres.NewRecipientRepository(db),
		postgres.NewSettingsRepository(db),
		photos,
		noopNotifier{},
		config.AnalyticsConfig{EmptyStatus: "vazio", RecentLimit: 50},
	)

	router := NewRouter(svc, newFakeSessions(), monitoring.NewService(), config.AdminConfig{Password: adminPassword})
	return router, svc
}

func do(t *testing.T, router *Router, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router *Router, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid login response: %v", err)
	}
	return resp.Token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func pushStatus(t *testing.T, router *Router, moduleID, status string, light int) models.CommandView {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"modulo_id":     moduleID,
		"status":        status,
		"light_reading": light,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/status", bytes.NewReader(body))
	rec := do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status push returned %d: %s", rec.Code, rec.Body.String())
	}
	var view models.CommandView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid command view: %v", err)
	}
	return view
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health body = %s", rec.Body.String())
	}
}

func TestStatusPushReturnsCommandView(t *testing.T) {
	router, _ := newTestRouter(t)

	view := pushStatus(t, router, "mod-1", "ok", 420)

	want := models.CommandView{
		AutoMode:       true,
		RelayOn:        false,
		LightThreshold: models.DefaultLightThreshold,
		PhotoCommand:   false,
	}
	if view != want {
		t.Errorf("command view = %+v, want %+v", view, want)
	}
}

func TestStatusPushRejectsEmptyModuleID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/status", strings.NewReader(`{"status":"ok"}`))
	rec := do(t, router, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status push returned %d, want 400", rec.Code)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/modulos", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list returned %d, want 401", rec.Code)
	}

	req := authed(httptest.NewRequest(http.MethodGet, "/api/modulos", nil), "bogus")
	if rec := do(t, router, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus token returned %d, want 401", rec.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	pushStatus(t, router, "mod-1", "ok", 100)
	token := login(t, router, "", adminPassword)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/modulos", nil), token)
	rec := do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
	}
	var modules []models.Module
	if err := json.Unmarshal(rec.Body.Bytes(), &modules); err != nil {
		t.Fatalf("invalid module list: %v", err)
	}
	if len(modules) != 1 || modules[0].ID != "mod-1" {
		t.Errorf("module list = %+v, want [mod-1]", modules)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"password": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	if rec := do(t, router, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password returned %d, want 401", rec.Code)
	}
}

func createRecipient(t *testing.T, svc *hubservice.HubService, chatID string, light bool) *models.Recipient {
	t.Helper()
	r := &models.Recipient{
		Name:           "Ana",
		Username:       "ana-" + chatID,
		Password:       "secret",
		ChatID:         chatID,
		CanToggleLight: light,
	}
	if err := svc.CreateRecipient(context.Background(), r); err != nil {
		t.Fatalf("CreateRecipient() error = %v", err)
	}
	return r
}

func TestLightControlAuthorization(t *testing.T) {
	router, svc := newTestRouter(t)

	pushStatus(t, router, "mod-1", "ok", 100)
	createRecipient(t, svc, "111", false)
	token := login(t, router, "ana-111", "secret")

	body := strings.NewReader(`{"action":"on"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/modulos/mod-1/light", body), token)
	if rec := do(t, router, req); rec.Code != http.StatusForbidden {
		t.Errorf("uncapable light control returned %d, want 403", rec.Code)
	}

	createRecipient(t, svc, "222", true)
	token = login(t, router, "ana-222", "secret")
	body = strings.NewReader(`{"action":"on"}`)
	req = authed(httptest.NewRequest(http.MethodPost, "/api/modulos/mod-1/light", body), token)
	if rec := do(t, router, req); rec.Code != http.StatusNoContent {
		t.Fatalf("light control returned %d", rec.Code)
	}

	module, err := svc.GetModule(context.Background(), "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if !module.RelayOn || module.AutoMode {
		t.Errorf("after control: relay=%t auto=%t", module.RelayOn, module.AutoMode)
	}
}

func TestAdminRoutesForbiddenForRecipients(t *testing.T) {
	router, svc := newTestRouter(t)

	pushStatus(t, router, "mod-1", "ok", 100)
	createRecipient(t, svc, "111", true)
	token := login(t, router, "ana-111", "secret")

	req := authed(httptest.NewRequest(http.MethodGet, "/api/admin/recipients", nil), token)
	if rec := do(t, router, req); rec.Code != http.StatusForbidden {
		t.Errorf("recipient admin access returned %d, want 403", rec.Code)
	}

	req = authed(httptest.NewRequest(http.MethodDelete, "/api/modulos/mod-1", nil), token)
	if rec := do(t, router, req); rec.Code != http.StatusForbidden {
		t.Errorf("recipient module delete returned %d, want 403", rec.Code)
	}
}

func TestUploadPhotoWithoutFile(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload_photo/mod-1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if rec := do(t, router, req); rec.Code != http.StatusBadRequest {
		t.Errorf("upload without file returned %d, want 400", rec.Code)
	}
}

func TestPhotoUploadAndDownload(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	pushStatus(t, router, "mod-1", "ok", 100)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "capture.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	io.Copy(fw, strings.NewReader("jpegbytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload_photo/mod-1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}

	module, err := svc.GetModule(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if module.LastPhoto == nil {
		t.Fatalf("last_photo not set after upload")
	}

	token := login(t, router, "", adminPassword)
	req = authed(httptest.NewRequest(http.MethodGet, "/api/photos/"+*module.LastPhoto, nil), token)
	rec = do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("photo download returned %d", rec.Code)
	}
	if rec.Body.String() != "jpegbytes" {
		t.Errorf("photo body = %q", rec.Body.String())
	}
}

func TestThresholdForm(t *testing.T) {
	router, _ := newTestRouter(t)

	pushStatus(t, router, "mod-1", "ok", 100)
	token := login(t, router, "", adminPassword)

	form := url.Values{}
	form.Set("modulo_id", "mod-1")
	form.Set("threshold", "1500")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/admin/threshold", strings.NewReader(form.Encode())), token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(t, router, req); rec.Code != http.StatusNoContent {
		t.Fatalf("threshold update returned %d", rec.Code)
	}

	view := pushStatus(t, router, "mod-1", "ok", 100)
	if view.LightThreshold != 1500 {
		t.Errorf("command view threshold = %d, want 1500", view.LightThreshold)
	}
}

func TestUpdateBotToken(t *testing.T) {
	router, svc := newTestRouter(t)

	token := login(t, router, "", adminPassword)

	form := url.Values{}
	form.Set("telegram_token", "123456:abcdef")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/admin/token", strings.NewReader(form.Encode())), token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec := do(t, router, req); rec.Code != http.StatusNoContent {
		t.Fatalf("token update returned %d", rec.Code)
	}

	stored, err := svc.Settings.Get(context.Background(), repository.KeyTelegramToken)
	if err != nil {
		t.Fatalf("Settings.Get() error = %v", err)
	}
	if stored != "123456:abcdef" {
		t.Errorf("stored token = %q", stored)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router, _ := newTestRouter(t)

	token := login(t, router, "", adminPassword)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/logout", nil), token)
	if rec := do(t, router, req); rec.Code != http.StatusNoContent {
		t.Fatalf("logout returned %d", rec.Code)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/api/modulos", nil), token)
	if rec := do(t, router, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked session returned %d, want 401", rec.Code)
	}
}
