// Package ratings implements rating submission and on-demand aggregation.
package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/bissquit/store-ratings/internal/pkg/metrics"
)

// Service implements rating business logic.
type Service struct {
	repo Repository
}

// NewService creates a new ratings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertInput holds data for submitting a rating.
type UpsertInput struct {
	UserID  string
	StoreID string
	Value   int
}

// UpsertRating creates or overwrites the caller's rating for a store. The
// write is a single atomic statement at the storage boundary, so concurrent
// submissions for the same (user, store) pair serialize to last-write-wins
// and never produce two rows.
func (s *Service) UpsertRating(ctx context.Context, input UpsertInput) (*domain.Rating, bool, error) {
	if input.Value < domain.MinRatingValue || input.Value > domain.MaxRatingValue {
		return nil, false, ErrInvalidRatingValue
	}

	if _, err := s.repo.GetStoreByID(ctx, input.StoreID); err != nil {
		return nil, false, err
	}

	rating, created, err := s.repo.Upsert(ctx, UpsertParams(input))
	if err != nil {
		return nil, false, fmt.Errorf("upsert rating: %w", err)
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.RatingsSubmitted.WithLabelValues(outcome).Inc()

	return &rating, created, nil
}

// AggregateFor computes the fresh aggregate for a store from its current
// rating rows. Nothing is cached across mutations.
func (s *Service) AggregateFor(ctx context.Context, storeID string) (domain.RatingAggregate, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("list ratings for store: %w", err)
	}
	return domain.AggregateRatings(storeID, rows), nil
}

// ListAll returns every rating row (admin view).
func (s *Service) ListAll(ctx context.Context) ([]domain.Rating, error) {
	return s.repo.ListAll(ctx)
}

// ListByUser returns the caller's own ratings.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Dashboard is the store owner's view: their store, its fresh aggregate and
// the users who rated it. Store is nil when the owner has no store assigned.
type Dashboard struct {
	Store     *domain.Store          `json:"store"`
	Aggregate domain.RatingAggregate `json:"aggregate"`
	Raters    []StoreRater           `json:"raters"`
}

// OwnerDashboard builds the dashboard for the store owned by ownerID. An
// owner without a store gets an empty placeholder, never an error.
func (s *Service) OwnerDashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	store, err := s.repo.GetStoreByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return &Dashboard{
				Store:     nil,
				Aggregate: domain.AggregateRatings("", nil),
				Raters:    []StoreRater{},
			}, nil
		}
		return nil, fmt.Errorf("get store by owner: %w", err)
	}

	rows, err := s.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for store: %w", err)
	}

	raters, err := s.repo.ListRatersByStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("list raters for store: %w", err)
	}

	return &Dashboard{
		Store:     store,
		Aggregate: domain.AggregateRatings(store.ID, rows),
		Raters:    raters,
	}, nil
}
