// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"io"
	"time"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/models"
)

// ModuleRepository defines the interface for module state operations
type ModuleRepository interface {
	database.Repository
	Create(ctx context.Context, module *models.Module) error
	CreateTx(ctx context.Context, tx database.Transaction, module *models.Module) error
	Get(ctx context.Context, id string) (*models.Module, error)
	GetTx(ctx context.Context, tx database.Transaction, id string) (*models.Module, error)
	List(ctx context.Context) ([]*models.Module, error)
	Delete(ctx context.Context, id string) error
	DeleteTx(ctx context.Context, tx database.Transaction, id string) error
	UpdateStatusTx(ctx context.Context, tx database.Transaction, id, status string) error
	UpdateReadingTx(ctx context.Context, tx database.Transaction, id string, light int, at time.Time) error
	SetRelay(ctx context.Context, id string, relayOn, autoMode bool) error
	SetAutoMode(ctx context.Context, id string, autoMode bool) error
	SetThreshold(ctx context.Context, id string, threshold int) error
	RequestPhoto(ctx context.Context, id, requesterChat string) error
	FulfillPhoto(ctx context.Context, id, photoName string) error
}

// StatusEventRepository defines the interface for the append-only event log
type StatusEventRepository interface {
	database.Repository
	Append(ctx context.Context, event *models.StatusEvent) error
	AppendTx(ctx context.Context, tx database.Transaction, event *models.StatusEvent) error
	List(ctx context.Context, limit int) ([]*models.StatusEvent, error)
	ListByModule(ctx context.Context, moduleID string, limit int) ([]*models.StatusEvent, error)
	ListByNewStatus(ctx context.Context, status string) ([]*models.StatusEvent, error)
	DeleteByModuleTx(ctx context.Context, tx database.Transaction, moduleID string) error
}

// RecipientRepository defines the interface for bot user records
type RecipientRepository interface {
	database.Repository
	Create(ctx context.Context, recipient *models.Recipient) error
	Get(ctx context.Context, id string) (*models.Recipient, error)
	GetByChatID(ctx context.Context, chatID string) (*models.Recipient, error)
	GetByUsername(ctx context.Context, username string) (*models.Recipient, error)
	List(ctx context.Context) ([]*models.Recipient, error)
	UpdatePermissions(ctx context.Context, id string, canToggleLight, canRequestPhoto bool) error
	Delete(ctx context.Context, id string) error
}

// KeyTelegramToken is the settings key holding the bot transport token.
const KeyTelegramToken = "telegram_token"

// SettingsRepository defines the interface for the dynamic key-value
// configuration store (currently only the bot transport token).
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// PhotoStore defines the interface for the file-backed image store
type PhotoStore interface {
	Store(ctx context.Context, moduleID string, src io.Reader, at time.Time) (string, error)
	Stream(ctx context.Context, name string, w io.Writer) error
	Path(name string) (string, error)
	DeleteByModule(ctx context.Context, moduleID string) error
}
