package cleanup

import (
	"context"
	"fmt"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/repository"
)

// CleanupService coordinates cascading deletion. Removing a module must
// also clear its queued command state, event history and stored photos;
// removing a recipient must never break an in-flight photo fulfillment
// (requesters are stored as chat addresses on the module row, not as
// references into the recipients table).
type CleanupService struct {
	modules repository.ModuleRepository
	events  repository.StatusEventRepository
	photos  repository.PhotoStore
	emitter *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	modules repository.ModuleRepository,
	events repository.StatusEventRepository,
	photos repository.PhotoStore,
) *CleanupService {
	return &CleanupService{
		modules: modules,
		events:  events,
		photos:  photos,
		emitter: nuts.NewEventEmitter(),
	}
}

// DeleteModule deletes a module, its event history and its photos. Row
// deletions share one transaction; photo files are removed best-effort
// after commit.
func (s *CleanupService) DeleteModule(ctx context.Context, moduleID string) error {
	if _, err := s.modules.Get(ctx, moduleID); err != nil {
		return err
	}

	tx, err := s.modules.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := s.events.DeleteByModuleTx(ctx, tx, moduleID); err != nil {
		return fmt.Errorf("failed to delete status events: %w", err)
	}

	if err := s.modules.DeleteTx(ctx, tx, moduleID); err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.photos.DeleteByModule(ctx, moduleID); err != nil {
		nuts.L.Warnf("[Cleanup] Photo cleanup for module %s failed: %v", moduleID, err)
	}

	s.emitter.Emit("module.deleted", moduleID)
	return nil
}

// EmitRecipientDeleted reports a recipient removal to registered handlers.
func (s *CleanupService) EmitRecipientDeleted(recipientID string) {
	s.emitter.Emit("recipient.deleted", recipientID)
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.emitter.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
