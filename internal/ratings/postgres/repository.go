// Package postgres provides the PostgreSQL implementation of the ratings
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/bissquit/store-ratings/internal/ratings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by the repository. Satisfied by
// pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository implements ratings.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL ratings repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const ratingColumns = `id, user_id, store_id, value, created_at, updated_at`

// Upsert inserts or overwrites a rating in a single statement, keyed by the
// (user_id, store_id) unique constraint. The row id never changes on update.
// (xmax = 0) distinguishes a fresh insert from an overwrite.
func (r *Repository) Upsert(ctx context.Context, params ratings.UpsertParams) (domain.Rating, bool, error) {
	query := `
		INSERT INTO ratings (user_id, store_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, store_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING ` + ratingColumns + `, (xmax = 0) AS inserted
	`

	var rating domain.Rating
	var inserted bool
	err := r.db.QueryRow(ctx, query, params.UserID, params.StoreID, params.Value).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, fmt.Errorf("upsert rating: %w", err)
	}

	return rating, inserted, nil
}

// GetByUserAndStore retrieves the rating for a specific (user, store) pair.
func (r *Repository) GetByUserAndStore(ctx context.Context, userID, storeID string) (domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE user_id = $1 AND store_id = $2
	`
	var rating domain.Rating
	err := r.db.QueryRow(ctx, query, userID, storeID).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rating{}, ratings.ErrRatingNotFound
		}
		return domain.Rating{}, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

// ListAll returns every rating row in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		ORDER BY created_at, id
	`
	return r.queryRatings(ctx, query)
}

// ListByUser returns all ratings submitted by one user.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	return r.queryRatings(ctx, query, userID)
}

// ListByStore returns all ratings for one store.
func (r *Repository) ListByStore(ctx context.Context, storeID string) ([]domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE store_id = $1
		ORDER BY created_at, id
	`
	return r.queryRatings(ctx, query, storeID)
}

// ListRatersByStore returns the rater name and value for each rating of a
// store, for the owner dashboard.
func (r *Repository) ListRatersByStore(ctx context.Context, storeID string) ([]ratings.StoreRater, error) {
	query := `
		SELECT r.id, u.name, r.value
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.created_at, r.id
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list raters: %w", err)
	}
	defer rows.Close()

	raters := make([]ratings.StoreRater, 0)
	for rows.Next() {
		var rater ratings.StoreRater
		if err := rows.Scan(&rater.RatingID, &rater.UserName, &rater.Value); err != nil {
			return nil, fmt.Errorf("scan rater: %w", err)
		}
		raters = append(raters, rater)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raters: %w", err)
	}

	return raters, nil
}

// GetStoreByID retrieves a store by id.
func (r *Repository) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	query := `
		SELECT id, name, email, address, owner_id, created_at, updated_at
		FROM stores
		WHERE id = $1
	`
	return r.scanStore(r.db.QueryRow(ctx, query, id), "get store by id")
}

// GetStoreByOwner retrieves the store assigned to an owner, if any.
func (r *Repository) GetStoreByOwner(ctx context.Context, ownerID string) (*domain.Store, error) {
	query := `
		SELECT id, name, email, address, owner_id, created_at, updated_at
		FROM stores
		WHERE owner_id = $1
	`
	return r.scanStore(r.db.QueryRow(ctx, query, ownerID), "get store by owner")
}

func (r *Repository) scanStore(row pgx.Row, op string) (*domain.Store, error) {
	var store domain.Store
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ratings.ErrStoreNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &store, nil
}

func (r *Repository) queryRatings(ctx context.Context, query string, args ...any) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Rating, 0)
	for rows.Next() {
		var rating domain.Rating
		err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.StoreID,
			&rating.Value,
			&rating.CreatedAt,
			&rating.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		result = append(result, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return result, nil
}
