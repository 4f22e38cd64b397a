package auth

import (
	"context"
	"testing"
	"time"

	"travelbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID uuid.UUID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestRegister_DefaultsToTraveler(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleTraveler && u.PasswordHash != "secret-password"
	})).Return(nil)
	tokens.On("GenerateToken", mock.Anything, "traveler").Return("token-1", nil)

	svc := NewService(users, tokens)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "guest@example.com",
		Password: "secret-password",
		Name:     "Guest",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, domain.RoleTraveler, resp.User.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("secret-password")))
}

func TestRegister_SupplierRole(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	tokens.On("GenerateToken", mock.Anything, "supplier").Return("token-2", nil)

	svc := NewService(users, tokens)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "host@example.com",
		Password: "secret-password",
		Name:     "Host",
		Role:     "supplier",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleSupplier, resp.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23505"})

	svc := NewService(users, new(MockTokenIssuer))
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "secret-password",
		Name:     "Dup",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	u := &domain.User{
		ID:           uuid.New(),
		Email:        "guest@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleTraveler,
		CreatedAt:    time.Now(),
	}

	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)
	tokens.On("GenerateToken", u.ID, "traveler").Return("token-3", nil)

	svc := NewService(users, tokens)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "secret-password"})

	assert.NoError(t, err)
	assert.Equal(t, "token-3", resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	u := &domain.User{ID: uuid.New(), Email: "guest@example.com", PasswordHash: string(hash)}

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	svc := NewService(users, new(MockTokenIssuer))
	_, err := svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(users, new(MockTokenIssuer))
	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
