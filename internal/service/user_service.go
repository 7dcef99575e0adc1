package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// UserService handles administrative user management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers returns a page of users and the total count.
func (s *UserService) ListUsers(page, pageSize int) ([]entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.List(pageSize, offset)
	if err != nil {
		log.Printf("[UserService] failed to list users: %v", err)
		return nil, 0, err
	}
	return users, total, nil
}

// GetUser returns one user.
func (s *UserService) GetUser(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// UserInput holds the data for user creation and update.
type UserInput struct {
	Name     string
	Surname  string
	Phone    string
	Note     string
	IsActive *bool
}

// CreateUser creates a regular user from the admin panel.
func (s *UserService) CreateUser(input UserInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	input.Phone = normalizePhone(input.Phone)

	if input.Name == "" || input.Surname == "" {
		return nil, fmt.Errorf("%w: name and surname are required", apperrors.ErrValidation)
	}
	if !phonePattern.MatchString(input.Phone) {
		return nil, fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
	}
	if existing, err := s.userRepo.GetByPhone(input.Phone); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: phone already registered", apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Surname:  input.Surname,
		Phone:    input.Phone,
		Note:     strings.TrimSpace(input.Note),
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser updates a user's profile fields.
func (s *UserService) UpdateUser(id uint, input UserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if surname := strings.TrimSpace(input.Surname); surname != "" {
		user.Surname = surname
	}
	if phone := normalizePhone(input.Phone); phone != "" && phone != user.Phone {
		if !phonePattern.MatchString(phone) {
			return nil, fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
		}
		if existing, err := s.userRepo.GetByPhone(phone); err == nil && existing != nil {
			return nil, fmt.Errorf("%w: phone already registered", apperrors.ErrConflict)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		user.Phone = phone
	}
	if input.Note != "" {
		user.Note = strings.TrimSpace(input.Note)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}
