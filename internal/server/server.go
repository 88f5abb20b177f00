// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/api"
	"github.com/luzhub/luzhub/internal/auth"
	"github.com/luzhub/luzhub/internal/bot"
	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/monitoring"
	"github.com/luzhub/luzhub/internal/notify"
	"github.com/luzhub/luzhub/internal/repository/files"
	"github.com/luzhub/luzhub/internal/repository/postgres"
)

// Server wires the storage, services, bot loop and HTTP surface and
// owns their lifecycle.
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	sessions   *auth.RedisSessionStore
	hubservice *hubservice.HubService
	dispatcher *notify.Dispatcher
	bot        *bot.Bot
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start initializes all components, begins serving and blocks until
// shutdown completes.
func (s *Server) Start() error {
	if err := s.initialize(); err != nil {
		return err
	}

	s.setupCleanupHandlers()
	s.dispatcher.Start()

	botCtx, stopBot := context.WithCancel(context.Background())
	go s.bot.Run(botCtx)

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	err := s.waitForShutdown()
	stopBot()
	s.dispatcher.Stop()
	s.db.Close()
	s.sessions.Close()
	return err
}

func (s *Server) initialize() error {
	db, err := database.New(s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	s.db = db

	sessions, err := auth.NewRedisSessionStore(s.config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect session store: %w", err)
	}
	s.sessions = sessions

	photos, err := files.NewPhotoRepository(files.Config{
		BasePath:    s.config.FileStore.BasePath,
		MaxFileSize: s.config.FileStore.MaxFileSize,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize photo store: %w", err)
	}

	modules := postgres.NewModuleRepository(db)
	events := postgres.NewStatusEventRepository(db)
	recipients := postgres.NewRecipientRepository(db)
	settings := postgres.NewSettingsRepository(db)

	s.monitoring = monitoring.NewService()
	s.dispatcher = notify.New(notify.Config{
		Workers:   s.config.Notify.Workers,
		QueueSize: s.config.Notify.QueueSize,
	}, recipients, s.monitoring)

	s.hubservice = hubservice.New(modules, events, recipients, settings, photos, s.dispatcher, s.config.Analytics)
	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	// The bot is both the polling consumer and the dispatcher's
	// outbound transport.
	s.bot = bot.New(s.hubservice, s.config.Bot)
	s.dispatcher.SetSender(s.bot)

	router := api.NewRouter(s.hubservice, sessions, s.monitoring, s.config.Admin)
	s.srv.Handler = handlers.RecoveryHandler()(
		handlers.CombinedLoggingHandler(os.Stdout,
			handlers.CORS(handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}))(router)))

	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("module.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Module %s and all associated data deleted", id)
		s.monitoring.RecordEvent("module_deletion", map[string]string{
			"module_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("recipient.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Recipient %s deleted", id)
		s.monitoring.RecordEvent("recipient_deletion", map[string]string{
			"recipient_id": id,
		})
	})
}
