package postgres

import (
	"context"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
)

// BaseRepo carries the shared connection handle. Queries are written
// with "?" placeholders and rebound for the active driver, so the same
// repositories run on PostgreSQL and SQLite.
type BaseRepo struct {
	db database.DB
}

func (r *BaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepo) rebind(query string) string {
	return r.db.GetDB().Rebind(query)
}

func (r *BaseRepo) Ping(ctx context.Context) error {
	if err := r.db.GetDB().PingContext(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}
