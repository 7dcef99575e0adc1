package service

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
	"github.com/excellent-grade/gradetest-api/pkg/auth"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// AuthService handles registration and login. Regular users authenticate by
// phone number only; admins authenticate with email and password.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterInput holds the data for user registration.
type RegisterInput struct {
	Name    string
	Surname string
	Phone   string
}

// RegisterUser registers a new user and issues an access token.
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	input.Phone = normalizePhone(input.Phone)

	if input.Name == "" || input.Surname == "" {
		return nil, "", fmt.Errorf("%w: name and surname are required", apperrors.ErrValidation)
	}
	if !phonePattern.MatchString(input.Phone) {
		return nil, "", fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
	}

	if existing, err := s.userRepo.GetByPhone(input.Phone); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: phone already registered", apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	user := &entity.User{
		Name:     input.Name,
		Surname:  input.Surname,
		Phone:    input.Phone,
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] failed to create user phone=%s: %v", input.Phone, err)
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser authenticates a regular user by phone number.
func (s *AuthService) LoginUser(phone string) (*entity.User, string, error) {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return nil, "", fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: unknown phone number", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginAdmin authenticates an administrator by email and password.
func (s *AuthService) LoginAdmin(email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !user.IsAdmin() {
		return nil, "", fmt.Errorf("%w: admin rights required", apperrors.ErrForbidden)
	}
	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// normalizePhone strips spaces and dashes from a phone number.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phone
}
