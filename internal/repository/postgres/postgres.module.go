// FilePath: internal/repository/postgres/postgres.module.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

type ModuleRepo struct {
	BaseRepo
}

func NewModuleRepository(db database.DB) *ModuleRepo {
	return &ModuleRepo{BaseRepo{db: db}}
}

func (r *ModuleRepo) Create(ctx context.Context, module *models.Module) error {
	query := `
		INSERT INTO modules (
			id, status, current_light, light_threshold, auto_mode,
			relay_on, photo_requested, last_photo, requester_id,
			last_update, created_at
		) VALUES (
			:id, :status, :current_light, :light_threshold, :auto_mode,
			:relay_on, :photo_requested, :last_photo, :requester_id,
			:last_update, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, module)
	if err != nil {
		return errors.NewDatabaseError("failed to create module", err)
	}
	return nil
}

func (r *ModuleRepo) CreateTx(ctx context.Context, tx database.Transaction, module *models.Module) error {
	query := `
		INSERT INTO modules (
			id, status, current_light, light_threshold, auto_mode,
			relay_on, photo_requested, last_photo, requester_id,
			last_update, created_at
		) VALUES (
			:id, :status, :current_light, :light_threshold, :auto_mode,
			:relay_on, :photo_requested, :last_photo, :requester_id,
			:last_update, :created_at
		)`

	_, err := tx.NamedExecContext(ctx, query, module)
	if err != nil {
		return errors.NewDatabaseError("failed to create module", err)
	}
	return nil
}

func (r *ModuleRepo) Get(ctx context.Context, id string) (*models.Module, error) {
	module := &models.Module{}
	query := r.rebind(`SELECT * FROM modules WHERE id = ?`)

	err := r.db.GetDB().GetContext(ctx, module, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("module not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get module", err)
	}
	return module, nil
}

func (r *ModuleRepo) GetTx(ctx context.Context, tx database.Transaction, id string) (*models.Module, error) {
	module := &models.Module{}
	query := tx.Rebind(`SELECT * FROM modules WHERE id = ?`)

	err := tx.GetContext(ctx, module, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("module not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get module", err)
	}
	return module, nil
}

func (r *ModuleRepo) List(ctx context.Context) ([]*models.Module, error) {
	modules := []*models.Module{}
	query := `SELECT * FROM modules ORDER BY created_at, id`

	err := r.db.GetDB().SelectContext(ctx, &modules, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list modules", err)
	}
	return modules, nil
}

func (r *ModuleRepo) Delete(ctx context.Context, id string) error {
	query := r.rebind(`DELETE FROM modules WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete module", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) DeleteTx(ctx context.Context, tx database.Transaction, id string) error {
	query := tx.Rebind(`DELETE FROM modules WHERE id = ?`)
	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete module", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) UpdateStatusTx(ctx context.Context, tx database.Transaction, id, status string) error {
	query := tx.Rebind(`UPDATE modules SET status = ? WHERE id = ?`)
	result, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update module status", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) UpdateReadingTx(ctx context.Context, tx database.Transaction, id string, light int, at time.Time) error {
	query := tx.Rebind(`UPDATE modules SET current_light = ?, last_update = ? WHERE id = ?`)
	result, err := tx.ExecContext(ctx, query, light, at, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update module reading", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) SetRelay(ctx context.Context, id string, relayOn, autoMode bool) error {
	query := r.rebind(`UPDATE modules SET relay_on = ?, auto_mode = ? WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, relayOn, autoMode, id)
	if err != nil {
		return errors.NewDatabaseError("failed to set relay state", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) SetAutoMode(ctx context.Context, id string, autoMode bool) error {
	query := r.rebind(`UPDATE modules SET auto_mode = ? WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, autoMode, id)
	if err != nil {
		return errors.NewDatabaseError("failed to set auto mode", err)
	}
	return requireRows(result, "module not found")
}

func (r *ModuleRepo) SetThreshold(ctx context.Context, id string, threshold int) error {
	query := r.rebind(`UPDATE modules SET light_threshold = ? WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, threshold, id)
	if err != nil {
		return errors.NewDatabaseError("failed to set light threshold", err)
	}
	return requireRows(result, "module not found")
}

// RequestPhoto arms the photo command and records the requester. A
// pending requester is overwritten: the single-slot queue keeps only
// the most recent one.
func (r *ModuleRepo) RequestPhoto(ctx context.Context, id, requesterChat string) error {
	var requester interface{}
	if requesterChat != "" {
		requester = requesterChat
	}
	query := r.rebind(`UPDATE modules SET photo_requested = ?, requester_id = ? WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, true, requester, id)
	if err != nil {
		return errors.NewDatabaseError("failed to request photo", err)
	}
	return requireRows(result, "module not found")
}

// FulfillPhoto records the stored photo and disarms the photo command.
// The requester slot is cleared by the caller once delivery is queued.
func (r *ModuleRepo) FulfillPhoto(ctx context.Context, id, photoName string) error {
	query := r.rebind(`UPDATE modules SET last_photo = ?, photo_requested = ?, requester_id = NULL WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, photoName, false, id)
	if err != nil {
		return errors.NewDatabaseError("failed to fulfill photo request", err)
	}
	return requireRows(result, "module not found")
}

func requireRows(result sql.Result, notFoundMsg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(notFoundMsg, nil)
	}
	return nil
}
