// Package directory exposes filtered, sorted listings of users and stores,
// plus the admin create operations behind them.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bissquit/store-ratings/internal/domain"
)

// Service implements directory business logic. Listings work on a snapshot
// the repository returns in insertion order; everything derived (filtering,
// sorting, aggregates) is computed per request.
type Service struct {
	repo Repository
}

// NewService creates a new directory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UserFilter narrows the admin user listing. Text fields are case-insensitive
// substring matches; Role is an exact match, the empty value means all roles.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    domain.Role
}

func (f UserFilter) matches(u domain.User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	return containsFold(u.Name, f.Name) &&
		containsFold(u.Email, f.Email) &&
		containsFold(u.Address, f.Address)
}

// StoreFilter narrows the store listing. Query matches name OR address and is
// the search box of the regular user view; the remaining fields are the
// admin-style per-column filters.
type StoreFilter struct {
	Name    string
	Email   string
	Address string
	Query   string
}

func (f StoreFilter) matches(s domain.Store) bool {
	if f.Query != "" && !containsFold(s.Name, f.Query) && !containsFold(s.Address, f.Query) {
		return false
	}
	return containsFold(s.Name, f.Name) &&
		containsFold(s.Email, f.Email) &&
		containsFold(s.Address, f.Address)
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ListUsers returns the filtered, sorted user set for the admin view.
// Password hashes are stripped before the slice leaves the service.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter, by Sort) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !filter.matches(u) {
			continue
		}
		u.Password = ""
		filtered = append(filtered, u)
	}

	// Stable sort: insertion order decides ties regardless of direction.
	if by.Key != "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			return by.less(userSortKey(filtered[i], by.Key), userSortKey(filtered[j], by.Key))
		})
	}

	return filtered, nil
}

func userSortKey(u domain.User, key string) string {
	switch key {
	case SortByEmail:
		return strings.ToLower(u.Email)
	case SortByRole:
		return string(u.Role)
	default:
		return strings.ToLower(u.Name)
	}
}

// StoreView is a store enriched with its fresh rating aggregate and the
// calling user's own rating value (0 when they have not rated it).
type StoreView struct {
	domain.Store
	Aggregate domain.RatingAggregate `json:"aggregate"`
	MyRating  int                    `json:"my_rating"`
}

// ListStores returns the filtered, sorted store views for callerID.
// Aggregates are recomputed from the current rating snapshot on every call.
func (s *Service) ListStores(ctx context.Context, callerID string, filter StoreFilter, by Sort) ([]StoreView, error) {
	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	allRatings, err := s.repo.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	views := make([]StoreView, 0, len(stores))
	for _, store := range stores {
		if !filter.matches(store) {
			continue
		}
		view := StoreView{
			Store:     store,
			Aggregate: domain.AggregateRatings(store.ID, allRatings),
		}
		for _, r := range allRatings {
			if r.StoreID == store.ID && r.UserID == callerID {
				view.MyRating = r.Value
				break
			}
		}
		views = append(views, view)
	}

	if by.Key != "" {
		sort.SliceStable(views, func(i, j int) bool {
			return by.less(storeSortKey(views[i].Store, by.Key), storeSortKey(views[j].Store, by.Key))
		})
	}

	return views, nil
}

func storeSortKey(s domain.Store, key string) string {
	if key == SortByEmail {
		return strings.ToLower(s.Email)
	}
	return strings.ToLower(s.Name)
}

// CreateStoreInput holds data for creating a store.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID *string
}

// CreateStore creates a store, optionally assigned to an owner. The owner
// must exist and carry the store_owner role; validation happens before the
// insert.
func (s *Service) CreateStore(ctx context.Context, input CreateStoreInput) (*domain.Store, error) {
	if input.OwnerID != nil {
		owner, err := s.repo.GetUserByID(ctx, *input.OwnerID)
		if err != nil {
			if errors.Is(err, ErrOwnerNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, fmt.Errorf("get owner: %w", err)
		}
		if owner.Role != domain.RoleStoreOwner {
			return nil, ErrOwnerNotStoreOwner
		}
	}

	store := &domain.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: input.OwnerID,
	}
	if err := s.repo.CreateStore(ctx, store); err != nil {
		if errors.Is(err, ErrStoreEmailExists) {
			return nil, ErrStoreEmailExists
		}
		return nil, fmt.Errorf("create store: %w", err)
	}

	return store, nil
}
