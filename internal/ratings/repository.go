package ratings

import (
	"context"

	"github.com/bissquit/store-ratings/internal/domain"
)

// UpsertParams captures the payload required to upsert a rating.
type UpsertParams struct {
	UserID  string
	StoreID string
	Value   int
}

// StoreRater is one user's entry on the owner dashboard.
type StoreRater struct {
	RatingID string `json:"rating_id"`
	UserName string `json:"user_name"`
	Value    int    `json:"value"`
}

// Repository defines the interface for rating data operations. Store point
// lookups live here too: the rating paths are the only callers and the
// queries share the pool.
type Repository interface {
	// Upsert atomically inserts or overwrites the rating for the
	// (user, store) pair and reports whether a new row was created.
	Upsert(ctx context.Context, params UpsertParams) (domain.Rating, bool, error)
	GetByUserAndStore(ctx context.Context, userID, storeID string) (domain.Rating, error)
	ListAll(ctx context.Context) ([]domain.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Rating, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Rating, error)
	ListRatersByStore(ctx context.Context, storeID string) ([]StoreRater, error)

	GetStoreByID(ctx context.Context, id string) (*domain.Store, error)
	GetStoreByOwner(ctx context.Context, ownerID string) (*domain.Store, error)
}
