package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bissquit/store-ratings/internal/directory"
	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewRepository(mock), mock
}

func storeColumns() []string {
	return []string{"id", "name", "email", "address", "owner_id", "created_at", "updated_at"}
}

func TestRepository_CreateStore(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	ownerID := "owner-1"
	mock.ExpectQuery(`INSERT INTO stores`).
		WithArgs("Corner Grocery", "grocery@example.com", "12 High Street", &ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("store-1", now, now))

	store := &domain.Store{
		Name:    "Corner Grocery",
		Email:   "grocery@example.com",
		Address: "12 High Street",
		OwnerID: &ownerID,
	}

	err := repo.CreateStore(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "store-1", store.ID)
	assert.Equal(t, now, store.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateStore_DuplicateEmail(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO stores`).
		WithArgs("Corner Grocery", "grocery@example.com", "", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "stores_email_key"})

	err := repo.CreateStore(context.Background(), &domain.Store{
		Name:  "Corner Grocery",
		Email: "grocery@example.com",
	})

	assert.ErrorIs(t, err, directory.ErrStoreEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListStores_InsertionOrder(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM stores\s+ORDER BY created_at, id`).
		WillReturnRows(pgxmock.NewRows(storeColumns()).
			AddRow("store-1", "Corner Grocery", "grocery@example.com", "", (*string)(nil), now, now).
			AddRow("store-2", "Book Nook", "books@example.com", "", (*string)(nil), now.Add(time.Minute), now.Add(time.Minute)))

	stores, err := repo.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "store-1", stores[0].ID)
	assert.Equal(t, "Book Nook", stores[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "address", "role", "created_at", "updated_at"}))

	_, err := repo.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, directory.ErrOwnerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
