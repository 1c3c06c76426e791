package directory

import (
	"context"

	"github.com/bissquit/store-ratings/internal/domain"
)

// Repository defines the read-side snapshot queries and store creation used by
// the directory service. Snapshots come back ordered by insertion
// (created_at, id); filtering and sorting happen in memory on top of that
// order.
type Repository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	ListRatings(ctx context.Context) ([]domain.Rating, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	CreateStore(ctx context.Context, store *domain.Store) error
}
