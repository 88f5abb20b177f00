// FilePath: api/resources/resources.go
package resources

import (
	"github.com/luzhub/luzhub/internal/auth"
	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/monitoring"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Status     *StatusHandlers
	Modules    *ModuleHandlers
	Photos     *PhotoHandlers
	Recipients *RecipientHandlers
	Events     *EventHandlers
	Auth       *AuthHandlers
	System     *SystemHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService, sessions auth.SessionStore, mon *monitoring.Service, adminCfg config.AdminConfig) *Resources {
	return &Resources{
		Status:     &StatusHandlers{hubservice: svc},
		Modules:    &ModuleHandlers{hubservice: svc},
		Photos:     &PhotoHandlers{hubservice: svc},
		Recipients: &RecipientHandlers{hubservice: svc},
		Events:     &EventHandlers{hubservice: svc},
		Auth:       &AuthHandlers{hubservice: svc, sessions: sessions, admin: adminCfg},
		System:     &SystemHandlers{monitoring: mon},
	}
}
