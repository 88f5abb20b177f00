// FilePath: internal/hubservice/hubservice.control.go
package hubservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

// Light control actions accepted by SetLight.
const (
	LightOn     = "on"
	LightOff    = "off"
	LightAuto   = "auto"
	LightToggle = "toggle"
)

// Authorize is the single capability check used by every control
// surface (web handlers and the bot interpreter alike).
func (s *HubService) Authorize(id models.Identity, cap models.Capability) error {
	if !id.Has(cap) {
		return errors.NewAuthorizationError("missing capability: "+string(cap), nil)
	}
	return nil
}

// SetLight applies a relay control action. "on", "off" and "toggle"
// force the relay and take the module out of auto mode; "auto" puts it
// back under threshold control without touching the relay state.
func (s *HubService) SetLight(ctx context.Context, moduleID, action string) error {
	module, err := s.Modules.Get(ctx, moduleID)
	if err != nil {
		return err
	}

	switch action {
	case LightOn:
		err = s.Modules.SetRelay(ctx, moduleID, true, false)
	case LightOff:
		err = s.Modules.SetRelay(ctx, moduleID, false, false)
	case LightToggle:
		err = s.Modules.SetRelay(ctx, moduleID, !module.RelayOn, false)
	case LightAuto:
		err = s.Modules.SetAutoMode(ctx, moduleID, true)
	default:
		return errors.NewValidationError("unknown light action: "+action, nil)
	}
	if err != nil {
		return err
	}

	nuts.L.Infof("[Control] Module %s light -> %s", moduleID, action)
	return nil
}

// SetThreshold updates the relay trigger level for auto mode.
func (s *HubService) SetThreshold(ctx context.Context, moduleID string, threshold int) error {
	if threshold < 0 {
		return errors.NewValidationError("threshold must not be negative", nil)
	}
	if err := s.Modules.SetThreshold(ctx, moduleID, threshold); err != nil {
		return err
	}
	nuts.L.Infof("[Control] Module %s threshold -> %d", moduleID, threshold)
	return nil
}
