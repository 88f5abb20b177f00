// FilePath: internal/repository/postgres/postgres.settings.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
)

// SettingsRepo stores operator-adjustable configuration, notably the
// bot transport token. Values are hot-swappable: readers fetch on use.
type SettingsRepo struct {
	BaseRepo
}

func NewSettingsRepository(db database.DB) *SettingsRepo {
	return &SettingsRepo{BaseRepo{db: db}}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := r.rebind(`SELECT value FROM settings WHERE key = ?`)

	err := r.db.GetDB().GetContext(ctx, &value, query, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", errors.NewNotFoundError("setting not found", err)
		}
		return "", errors.NewDatabaseError("failed to get setting", err)
	}
	return value, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := r.rebind(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)

	_, err := r.db.GetDB().ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return errors.NewDatabaseError("failed to set setting", err)
	}
	return nil
}
