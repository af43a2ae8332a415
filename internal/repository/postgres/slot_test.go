package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpureza/liga-expo/internal/model"
)

func newMockRepository(t *testing.T) (*SlotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSlotRepository(&Connection{DB: db}, "ops"), mock
}

func TestNewSlotRepository(t *testing.T) {
	db := &Connection{}
	repo := NewSlotRepository(db, "default")

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, "default", repo.namespace)
}

func TestSlotRepository_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM credential_slots WHERE namespace = $1 AND slot = $2`)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    []byte
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("ops", model.SlotToken).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("abc")))
			},
			want: []byte("abc"),
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("ops", model.SlotToken).
					WillReturnRows(sqlmock.NewRows([]string{"value"}))
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.Get(context.Background(), model.SlotToken)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSlotRepository_GetError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT value FROM credential_slots`).WillReturnError(errors.New("conn reset"))

	_, err := repo.Get(context.Background(), model.SlotUser)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get slot")
}

func TestSlotRepository_Put(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO credential_slots`).
		WithArgs("ops", model.SlotUser, []byte(`{"id":"1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), model.SlotUser, []byte(`{"id":"1"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepository_PutError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO credential_slots`).WillReturnError(errors.New("read only"))

	err := repo.Put(context.Background(), model.SlotUser, []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put slot")
}

func TestSlotRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credential_slots WHERE namespace = $1 AND slot IN ($2, $3)`)).
		WithArgs("ops", model.SlotToken, model.SlotUser).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Delete(context.Background(), model.SlotToken, model.SlotUser))
	require.NoError(t, repo.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
