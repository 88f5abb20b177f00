// FilePath: internal/hubservice/hubservice.status.go
package hubservice

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

// PushStatus applies one module status report and returns the command
// view the module acts on. This is the pull-based command channel:
// modules never receive commands except embedded in this response.
//
// Unknown modules are created lazily with status "init" before the
// pushed status is applied, so the first real status always produces an
// init -> status transition. Status strings are opaque; a transition is
// plain string inequality. The sensor reading and last_update are
// overwritten on every push regardless of transition. The row mutation
// and the event append share one transaction; the notification fan-out
// is handed to the Notifier after commit and never blocks the response.
func (s *HubService) PushStatus(ctx context.Context, push models.StatusPush) (*models.CommandView, error) {
	if push.ModuleID == "" {
		return nil, errors.NewValidationError("modulo_id is required", nil)
	}

	now := time.Now().UTC()

	tx, err := s.Modules.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	module, err := s.Modules.GetTx(ctx, tx, push.ModuleID)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		module = &models.Module{
			ID:             push.ModuleID,
			Status:         models.StatusInit,
			LightThreshold: models.DefaultLightThreshold,
			AutoMode:       true,
			LastUpdate:     now,
			CreatedAt:      now,
		}
		if err := s.Modules.CreateTx(ctx, tx, module); err != nil {
			return nil, err
		}
		nuts.L.Infof("[ModuleRegistry] Registered new module %s", module.ID)
	}

	transitioned := push.Status != "" && push.Status != module.Status
	if transitioned {
		event := &models.StatusEvent{
			ID:             nuts.NID("ev", 12),
			ModuleID:       module.ID,
			PreviousStatus: module.Status,
			NewStatus:      push.Status,
			Timestamp:      now,
		}
		if err := s.Events.AppendTx(ctx, tx, event); err != nil {
			return nil, err
		}
		if err := s.Modules.UpdateStatusTx(ctx, tx, module.ID, push.Status); err != nil {
			return nil, err
		}
		module.Status = push.Status
	}

	if err := s.Modules.UpdateReadingTx(ctx, tx, module.ID, push.LightReading, now); err != nil {
		return nil, err
	}
	module.CurrentLight = push.LightReading
	module.LastUpdate = now

	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseError("failed to commit status push", err)
	}

	if transitioned {
		nuts.L.Infof("[ModuleRegistry] Module %s status -> %s", module.ID, module.Status)
		s.Notifier.BroadcastStatus(module.ID, module.Status)
	}

	view := module.CommandView()
	return &view, nil
}
