// FilePath: internal/repository/postgres/postgres.events.go
package postgres

import (
	"context"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

type StatusEventRepo struct {
	BaseRepo
}

func NewStatusEventRepository(db database.DB) *StatusEventRepo {
	return &StatusEventRepo{BaseRepo{db: db}}
}

func (r *StatusEventRepo) Append(ctx context.Context, event *models.StatusEvent) error {
	query := `
		INSERT INTO status_events (id, module_id, previous_status, new_status, timestamp)
		VALUES (:id, :module_id, :previous_status, :new_status, :timestamp)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, event)
	if err != nil {
		return errors.NewDatabaseError("failed to append status event", err)
	}
	return nil
}

func (r *StatusEventRepo) AppendTx(ctx context.Context, tx database.Transaction, event *models.StatusEvent) error {
	query := `
		INSERT INTO status_events (id, module_id, previous_status, new_status, timestamp)
		VALUES (:id, :module_id, :previous_status, :new_status, :timestamp)`

	_, err := tx.NamedExecContext(ctx, query, event)
	if err != nil {
		return errors.NewDatabaseError("failed to append status event", err)
	}
	return nil
}

func (r *StatusEventRepo) List(ctx context.Context, limit int) ([]*models.StatusEvent, error) {
	events := []*models.StatusEvent{}
	query := r.rebind(`SELECT * FROM status_events ORDER BY timestamp DESC, id DESC LIMIT ?`)

	err := r.db.GetDB().SelectContext(ctx, &events, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list status events", err)
	}
	return events, nil
}

func (r *StatusEventRepo) ListByModule(ctx context.Context, moduleID string, limit int) ([]*models.StatusEvent, error) {
	events := []*models.StatusEvent{}
	query := r.rebind(`
		SELECT * FROM status_events WHERE module_id = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`)

	err := r.db.GetDB().SelectContext(ctx, &events, query, moduleID, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list status events", err)
	}
	return events, nil
}

func (r *StatusEventRepo) ListByNewStatus(ctx context.Context, status string) ([]*models.StatusEvent, error) {
	events := []*models.StatusEvent{}
	query := r.rebind(`SELECT * FROM status_events WHERE new_status = ? ORDER BY timestamp`)

	err := r.db.GetDB().SelectContext(ctx, &events, query, status)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list status events", err)
	}
	return events, nil
}

func (r *StatusEventRepo) DeleteByModuleTx(ctx context.Context, tx database.Transaction, moduleID string) error {
	query := tx.Rebind(`DELETE FROM status_events WHERE module_id = ?`)
	if _, err := tx.ExecContext(ctx, query, moduleID); err != nil {
		return errors.NewDatabaseError("failed to delete status events", err)
	}
	return nil
}
