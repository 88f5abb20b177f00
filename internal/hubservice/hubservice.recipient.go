// FilePath: internal/hubservice/hubservice.recipient.go
package hubservice

import (
	"context"
	"crypto/subtle"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

// CreateRecipient registers a bot user. New recipients start without
// control capabilities; an operator grants them explicitly.
func (s *HubService) CreateRecipient(ctx context.Context, recipient *models.Recipient) error {
	if recipient.Name == "" {
		return errors.NewValidationError("recipient name is required", nil)
	}
	if recipient.Username == "" || recipient.Password == "" {
		return errors.NewValidationError("recipient credentials are required", nil)
	}
	if recipient.ChatID == "" {
		return errors.NewValidationError("recipient chat id is required", nil)
	}

	if recipient.ID == "" {
		recipient.ID = nuts.NID("rc", 12)
	}
	recipient.CreatedAt = time.Now().UTC()

	nuts.L.Infof("[Recipients] Creating recipient %s (%s)", recipient.Name, recipient.ID)
	return s.Recipients.Create(ctx, recipient)
}

// ListRecipients returns all registered recipients
func (s *HubService) ListRecipients(ctx context.Context) ([]*models.Recipient, error) {
	return s.Recipients.List(ctx)
}

// UpdatePermissions sets a recipient's capability flags.
func (s *HubService) UpdatePermissions(ctx context.Context, id string, canToggleLight, canRequestPhoto bool) error {
	if err := s.Recipients.UpdatePermissions(ctx, id, canToggleLight, canRequestPhoto); err != nil {
		return err
	}
	nuts.L.Infof("[Recipients] Permissions for %s: light=%t photo=%t", id, canToggleLight, canRequestPhoto)
	return nil
}

// DeleteRecipient removes a recipient. Outstanding photo requests keep
// working: the requester slot on a module holds a plain chat address,
// so a later fulfillment just fails its delivery quietly.
func (s *HubService) DeleteRecipient(ctx context.Context, id string) error {
	if err := s.Recipients.Delete(ctx, id); err != nil {
		return err
	}
	s.Cleanup.EmitRecipientDeleted(id)
	return nil
}

// ResolveChat maps an inbound chat address to a caller identity.
// Unknown addresses yield an authentication error with no side effects.
func (s *HubService) ResolveChat(ctx context.Context, chatID string) (models.Identity, error) {
	recipient, err := s.Recipients.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.IsNotFound(err) {
			return models.Identity{}, errors.NewAuthError("unknown chat address", err)
		}
		return models.Identity{}, err
	}
	return recipient.Identity(), nil
}

// Login validates recipient credentials and returns the caller identity.
func (s *HubService) Login(ctx context.Context, username, password string) (models.Identity, error) {
	recipient, err := s.Recipients.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return models.Identity{}, errors.NewAuthError("invalid credentials", err)
		}
		return models.Identity{}, err
	}
	if subtle.ConstantTimeCompare([]byte(recipient.Password), []byte(password)) != 1 {
		return models.Identity{}, errors.NewAuthError("invalid credentials", nil)
	}
	return recipient.Identity(), nil
}
