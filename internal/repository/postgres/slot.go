package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devpureza/liga-expo/internal/model"
)

var _ model.SlotStore = (*SlotRepository)(nil)

// SlotRepository stores credential slots in the credential_slots table,
// scoped by namespace.
type SlotRepository struct {
	db        *Connection
	namespace string
}

func NewSlotRepository(db *Connection, namespace string) *SlotRepository {
	return &SlotRepository{
		db:        db,
		namespace: namespace,
	}
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM credential_slots WHERE namespace = $1 AND slot = $2`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, r.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return value, nil
}

func (r *SlotRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO credential_slots (namespace, slot, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, slot) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("failed to put slot: %w", err)
	}

	return nil
}

// Delete removes all given slots in one statement.
func (r *SlotRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	args = append(args, r.namespace)
	for i, k := range keys {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, k)
	}

	query := `DELETE FROM credential_slots WHERE namespace = $1 AND slot IN (` + strings.Join(placeholders, ", ") + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}

	return nil
}
