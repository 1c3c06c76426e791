package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	user.ID = "test-user-id"
	copied := *user
	m.users[user.Email] = &copied
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

// mockAuthenticator implements Authenticator for testing.
type mockAuthenticator struct {
	generateErr error
}

func (m *mockAuthenticator) GenerateToken(_ context.Context, _ *domain.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "signed-token", nil
}

func (m *mockAuthenticator) ValidateToken(_ context.Context, _ string) (string, domain.Role, error) {
	return "", "", nil
}

func newTestService(repo Repository) *Service {
	// bcrypt.MinCost keeps the tests fast.
	return NewService(repo, &mockAuthenticator{}, bcrypt.MinCost)
}

func TestRegister_AssignsNormalUserRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
		Address:  "1 Main Street",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
}

func TestRegister_StripsPasswordHash(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})

	require.NoError(t, err)
	assert.Empty(t, user.Password)

	// The stored record keeps a real bcrypt hash, not the plaintext.
	stored := repo.users["jane@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Password@1")))
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{Email: "existing@example.com"}
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "existing@example.com",
		Password: "Password@1",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_CreateUserFails(t *testing.T) {
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")
	service := newTestService(repo)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})

	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestCreateUser_ExplicitRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Brenda Owner",
		Email:    "owner@example.com",
		Password: "Password@3",
		Role:     domain.RoleStoreOwner,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStoreOwner, user.Role)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
		Role:     domain.Role("superuser"),
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin_Success(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), "jane@example.com", "Password@1")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Empty(t, user.Password)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})
	require.NoError(t, err)

	_, _, wrongPasswordErr := service.Login(context.Background(), "jane@example.com", "WrongPass@1")
	_, _, unknownEmailErr := service.Login(context.Background(), "nobody@example.com", "Password@1")

	assert.ErrorIs(t, wrongPasswordErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	// No information leak: the two failures are indistinguishable.
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error())
}

func TestLogin_TokenGenerationFails(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo, &mockAuthenticator{generateErr: errors.New("signing error")}, bcrypt.MinCost)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})
	require.NoError(t, err)

	_, _, loginErr := service.Login(context.Background(), "jane@example.com", "Password@1")
	assert.Error(t, loginErr)
	assert.NotErrorIs(t, loginErr, ErrInvalidCredentials)
}

func TestGetUserByID_StripsPasswordHash(t *testing.T) {
	repo := newMockRepository()
	service := newTestService(repo)

	created, err := service.Register(context.Background(), RegisterInput{
		Name:     "Jane Customer",
		Email:    "jane@example.com",
		Password: "Password@1",
	})
	require.NoError(t, err)

	user, err := service.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, user.Password)
}
