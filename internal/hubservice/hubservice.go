package hubservice

import (
	"github.com/luzhub/luzhub/internal/cleanup"
	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/repository"
)

// Notifier receives detached side-effect work from the mutation path.
// Implementations must not block the caller.
type Notifier interface {
	BroadcastStatus(moduleID, newStatus string)
	DeliverPhoto(chatID, path string)
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Modules    repository.ModuleRepository
	Events     repository.StatusEventRepository
	Recipients repository.RecipientRepository
	Settings   repository.SettingsRepository
	Photos     repository.PhotoStore
	Notifier   Notifier
	Cleanup    *cleanup.CleanupService

	analytics config.AnalyticsConfig
}

// New creates a new HubService instance
func New(
	modules repository.ModuleRepository,
	events repository.StatusEventRepository,
	recipients repository.RecipientRepository,
	settings repository.SettingsRepository,
	photos repository.PhotoStore,
	notifier Notifier,
	analytics config.AnalyticsConfig,
) *HubService {
	svc := &HubService{
		Modules:    modules,
		Events:     events,
		Recipients: recipients,
		Settings:   settings,
		Photos:     photos,
		Notifier:   notifier,
		analytics:  analytics,
	}
	svc.Cleanup = cleanup.New(modules, events, photos)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Modules == nil {
		return ErrMissingDependency("modules")
	}
	if s.Events == nil {
		return ErrMissingDependency("events")
	}
	if s.Recipients == nil {
		return ErrMissingDependency("recipients")
	}
	if s.Settings == nil {
		return ErrMissingDependency("settings")
	}
	if s.Photos == nil {
		return ErrMissingDependency("photos")
	}
	if s.Notifier == nil {
		return ErrMissingDependency("notifier")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}
