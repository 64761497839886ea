package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"craftmarket/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func TestService_Register_Success(t *testing.T) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)

	users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	jwt.On("GenerateToken", int64(999), "new@example.com", "customer").Return("token-123", nil)

	svc := NewService(users, jwt)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Иван Петров",
		Email:    "new@example.com",
		Password: "secret123",
		Role:     "customer",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-123", resp.Token)
	assert.Equal(t, domain.RoleCustomer, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash)
	assert.Zero(t, resp.User.Rating)
	assert.Zero(t, resp.User.TotalReviews)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)

	users.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

	svc := NewService(users, jwt)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Иван",
		Email:    "taken@example.com",
		Password: "secret123",
		Role:     "customer",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login_Success(t *testing.T) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &domain.User{ID: 7, Email: "user@example.com", PasswordHash: string(hash), Role: domain.RoleMaster}

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	jwt.On("GenerateToken", int64(7), "user@example.com", "master").Return("token-456", nil)

	svc := NewService(users, jwt)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, "token-456", resp.Token)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &domain.User{ID: 7, Email: "user@example.com", PasswordHash: string(hash)}

	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	svc := NewService(users, jwt)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(users, jwt)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
	assert.False(t, isUniqueViolation(assert.AnError))
}
