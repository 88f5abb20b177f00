// FilePath: internal/repository/postgres/postgres.recipients.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

type RecipientRepo struct {
	BaseRepo
}

func NewRecipientRepository(db database.DB) *RecipientRepo {
	return &RecipientRepo{BaseRepo{db: db}}
}

func (r *RecipientRepo) Create(ctx context.Context, recipient *models.Recipient) error {
	query := `
		INSERT INTO recipients (
			id, name, username, password, chat_id,
			can_toggle_light, can_request_photo, created_at
		) VALUES (
			:id, :name, :username, :password, :chat_id,
			:can_toggle_light, :can_request_photo, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, recipient)
	if err != nil {
		return errors.NewDatabaseError("failed to create recipient", err)
	}
	return nil
}

func (r *RecipientRepo) Get(ctx context.Context, id string) (*models.Recipient, error) {
	return r.getBy(ctx, `id`, id)
}

func (r *RecipientRepo) GetByChatID(ctx context.Context, chatID string) (*models.Recipient, error) {
	return r.getBy(ctx, `chat_id`, chatID)
}

func (r *RecipientRepo) GetByUsername(ctx context.Context, username string) (*models.Recipient, error) {
	return r.getBy(ctx, `username`, username)
}

func (r *RecipientRepo) getBy(ctx context.Context, column, value string) (*models.Recipient, error) {
	recipient := &models.Recipient{}
	query := r.rebind(`SELECT * FROM recipients WHERE ` + column + ` = ?`)

	err := r.db.GetDB().GetContext(ctx, recipient, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("recipient not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get recipient", err)
	}
	return recipient, nil
}

func (r *RecipientRepo) List(ctx context.Context) ([]*models.Recipient, error) {
	recipients := []*models.Recipient{}
	query := `SELECT * FROM recipients ORDER BY created_at, id`

	err := r.db.GetDB().SelectContext(ctx, &recipients, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list recipients", err)
	}
	return recipients, nil
}

func (r *RecipientRepo) UpdatePermissions(ctx context.Context, id string, canToggleLight, canRequestPhoto bool) error {
	query := r.rebind(`UPDATE recipients SET can_toggle_light = ?, can_request_photo = ? WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, canToggleLight, canRequestPhoto, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update permissions", err)
	}
	return requireRows(result, "recipient not found")
}

func (r *RecipientRepo) Delete(ctx context.Context, id string) error {
	query := r.rebind(`DELETE FROM recipients WHERE id = ?`)
	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete recipient", err)
	}
	return requireRows(result, "recipient not found")
}
