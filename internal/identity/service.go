// Package identity implements account registration, authentication and
// session token verification.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/bissquit/store-ratings/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the interface for user credential storage.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Authenticator issues and verifies session tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
	ValidateToken(ctx context.Context, token string) (userID string, role domain.Role, err error)
}

// Service implements identity business logic.
type Service struct {
	repo       Repository
	auth       Authenticator
	bcryptCost int
}

// NewService creates a new identity service. bcryptCost tunes password
// hashing; pass 0 to use bcrypt.DefaultCost.
func NewService(repo Repository, auth Authenticator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		auth:       auth,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput holds data for self-registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// CreateUserInput holds data for admin-initiated user creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     domain.Role
}

// Register creates a new account. Self-registration always yields the
// normal user role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Address:  input.Address,
		Role:     domain.RoleUser,
	})
}

// CreateUser creates an account with an explicit role (admin path).
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	return s.createUser(ctx, input)
}

func (s *Service) createUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	// Duplicate email is an exact, case-sensitive match on the stored value.
	_, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Address:  input.Address,
		Role:     input.Role,
	}

	// The unique constraint still closes the race between the check above
	// and the insert.
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the identical error.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	user.Password = ""
	return user, token, nil
}

// GetUserByID returns the user without the password hash.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ValidateToken implements httputil.TokenValidator.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, domain.Role, error) {
	return s.auth.ValidateToken(ctx, token)
}
