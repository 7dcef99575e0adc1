package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
	"github.com/excellent-grade/gradetest-api/pkg/auth"
)

func newTestAuthService(t *testing.T, userRepo *MockUserRepo) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 24)
	require.NoError(t, err)
	svc, err := NewAuthService(userRepo, jwtService)
	require.NoError(t, err)
	return svc
}

func TestAuthService_RegisterUser(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepo)
	userRepo.On("GetByPhone", "+998901234567").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 1
		}).
		Return(nil)

	svc := newTestAuthService(t, userRepo)

	// Act: phone arrives with formatting noise.
	user, token, err := svc.RegisterUser(RegisterInput{
		Name:    " Aziz ",
		Surname: "Karimov",
		Phone:   "+998 90 123-45-67",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Aziz", user.Name)
	assert.Equal(t, "+998901234567", user.Phone)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicatePhone(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByPhone", "+998901234567").Return(&entity.User{ID: 1, Phone: "+998901234567"}, nil)

	svc := newTestAuthService(t, userRepo)

	_, _, err := svc.RegisterUser(RegisterInput{Name: "Aziz", Surname: "Karimov", Phone: "+998901234567"})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterUser_InvalidPhone(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepo))

	_, _, err := svc.RegisterUser(RegisterInput{Name: "Aziz", Surname: "Karimov", Phone: "not-a-phone"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_LoginUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByPhone", "+998901234567").Return(&entity.User{
		ID:       1,
		Name:     "Aziz",
		Phone:    "+998901234567",
		Role:     entity.RoleUser,
		IsActive: true,
	}, nil)

	svc := newTestAuthService(t, userRepo)

	user, token, err := svc.LoginUser("+998 90 123 45 67")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(1), user.ID)
}

func TestAuthService_LoginUser_UnknownPhone(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByPhone", "+998900000000").Return(nil, apperrors.ErrNotFound)

	svc := newTestAuthService(t, userRepo)

	_, _, err := svc.LoginUser("+998900000000")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginUser_Deactivated(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByPhone", "+998901234567").Return(&entity.User{
		ID:       1,
		Phone:    "+998901234567",
		Role:     entity.RoleUser,
		IsActive: false,
	}, nil)

	svc := newTestAuthService(t, userRepo)

	_, _, err := svc.LoginUser("+998901234567")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthService_LoginAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", "admin@example.com").Return(&entity.User{
		ID:       2,
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     entity.RoleAdmin,
		IsActive: true,
	}, nil)

	svc := newTestAuthService(t, userRepo)

	user, token, err := svc.LoginAdmin("Admin@Example.com ", "secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsAdmin())
}

func TestAuthService_LoginAdmin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", "admin@example.com").Return(&entity.User{
		ID:       2,
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     entity.RoleAdmin,
		IsActive: true,
	}, nil)

	svc := newTestAuthService(t, userRepo)

	_, _, err = svc.LoginAdmin("admin@example.com", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginAdmin_RegularUserRejected(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       3,
		Email:    "user@example.com",
		Role:     entity.RoleUser,
		IsActive: true,
	}, nil)

	svc := newTestAuthService(t, userRepo)

	_, _, err := svc.LoginAdmin("user@example.com", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
