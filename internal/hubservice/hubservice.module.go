// FilePath: internal/hubservice/hubservice.module.go
package hubservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/models"
)

// GetModule retrieves one module snapshot
func (s *HubService) GetModule(ctx context.Context, id string) (*models.Module, error) {
	return s.Modules.Get(ctx, id)
}

// ListModules retrieves snapshots of all known modules
func (s *HubService) ListModules(ctx context.Context) ([]*models.Module, error) {
	return s.Modules.List(ctx)
}

// DeleteModule removes a module with cascading cleanup of its queued
// command state, event history and stored photos.
func (s *HubService) DeleteModule(ctx context.Context, id string) error {
	nuts.L.Infof("[ModuleRegistry] Deleting module %s", id)
	return s.Cleanup.DeleteModule(ctx, id)
}
