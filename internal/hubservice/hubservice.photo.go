// FilePath: internal/hubservice/hubservice.photo.go
package hubservice

import (
	"context"
	"io"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
)

// RequestPhoto arms the photo command for a module on behalf of a
// requester chat address. The module picks the command up on its next
// status push. The requester slot is single-entry: a second request
// before fulfillment overwrites the first requester, who then never
// receives the photo. Known limitation of the protocol, kept as is.
func (s *HubService) RequestPhoto(ctx context.Context, moduleID, requesterChat string) error {
	if moduleID == "" {
		return errors.NewValidationError("module id is required", nil)
	}
	if err := s.Modules.RequestPhoto(ctx, moduleID, requesterChat); err != nil {
		return err
	}
	nuts.L.Infof("[CommandQueue] Photo requested for module %s by %q", moduleID, requesterChat)
	return nil
}

// FulfillPhoto completes the photo command cycle: the uploaded image is
// stored, the command flag cleared, and a pending requester gets the
// image delivered asynchronously. An upload without a prior request
// still records the photo but performs no delivery. Uploads for unknown
// module ids keep the file but touch no module state.
func (s *HubService) FulfillPhoto(ctx context.Context, moduleID string, src io.Reader) error {
	if moduleID == "" {
		return errors.NewValidationError("module id is required", nil)
	}

	name, err := s.Photos.Store(ctx, moduleID, src, time.Now().UTC())
	if err != nil {
		return err
	}

	module, err := s.Modules.Get(ctx, moduleID)
	if err != nil {
		if errors.IsNotFound(err) {
			nuts.L.Warnf("[CommandQueue] Photo upload for unknown module %s, stored as %s", moduleID, name)
			return nil
		}
		return err
	}

	requester := ""
	if module.RequesterID != nil {
		requester = *module.RequesterID
	}

	if err := s.Modules.FulfillPhoto(ctx, moduleID, name); err != nil {
		return err
	}

	if requester != "" {
		path, err := s.Photos.Path(name)
		if err != nil {
			return err
		}
		s.Notifier.DeliverPhoto(requester, path)
	}

	nuts.L.Infof("[CommandQueue] Photo %s fulfilled for module %s", name, moduleID)
	return nil
}
