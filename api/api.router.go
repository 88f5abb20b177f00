package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luzhub/luzhub/api/middleware"
	"github.com/luzhub/luzhub/api/resources"
	"github.com/luzhub/luzhub/internal/auth"
	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/monitoring"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.SessionMiddleware
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService, sessions auth.SessionStore, mon *monitoring.Service, adminCfg config.AdminConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewSessionMiddleware(sessions),
		resources: resources.NewResources(svc, sessions, mon, adminCfg),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	api := r.router.PathPrefix("/api").Subrouter()

	// Public routes: device push/upload and session bootstrap. Modules
	// authenticate implicitly by their id; the wire format predates
	// this server and stays as the firmware expects it.
	api.HandleFunc("/health", r.resources.System.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/status", r.resources.Status.PushStatus).Methods(http.MethodPost)
	api.HandleFunc("/upload_photo/{moduleId}", r.resources.Photos.UploadPhoto).Methods(http.MethodPost)
	api.HandleFunc("/login", r.resources.Auth.Login).Methods(http.MethodPost)

	// Session-protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)
	protected.HandleFunc("/logout", r.resources.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/modulos", r.resources.Modules.ListModules).Methods(http.MethodGet)
	protected.HandleFunc("/modulos/{id}", r.resources.Modules.GetModule).Methods(http.MethodGet)
	protected.HandleFunc("/modulos/{id}/light", r.resources.Modules.SetLight).Methods(http.MethodPost)
	protected.HandleFunc("/modulos/{id}/photo", r.resources.Modules.RequestPhoto).Methods(http.MethodPost)
	protected.HandleFunc("/events", r.resources.Events.ListEvents).Methods(http.MethodGet)
	protected.HandleFunc("/photos/{name}", r.resources.Photos.GetPhoto).Methods(http.MethodGet)
	protected.Handle("/modulos/{id}",
		r.auth.RequireAdmin(http.HandlerFunc(r.resources.Modules.DeleteModule))).Methods(http.MethodDelete)

	// Operator-only routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(r.auth.RequireAdmin)
	admin.HandleFunc("/recipients", r.resources.Recipients.ListRecipients).Methods(http.MethodGet)
	admin.HandleFunc("/recipients", r.resources.Recipients.CreateRecipient).Methods(http.MethodPost)
	admin.HandleFunc("/recipients/{id}", r.resources.Recipients.DeleteRecipient).Methods(http.MethodDelete)
	admin.HandleFunc("/permissions", r.resources.Recipients.UpdatePermissions).Methods(http.MethodPost)
	admin.HandleFunc("/threshold", r.resources.Modules.UpdateThreshold).Methods(http.MethodPost)
	admin.HandleFunc("/token", r.resources.Auth.UpdateToken).Methods(http.MethodPost)
	admin.HandleFunc("/analytics", r.resources.Events.Analytics).Methods(http.MethodGet)
	admin.HandleFunc("/metrics", r.resources.System.Metrics).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
