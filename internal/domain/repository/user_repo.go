package repository

import (
	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// UserRepository defines persistence methods for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByPhone(phone string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List(limit, offset int) ([]entity.User, int64, error)
	Update(user *entity.User) error
	Delete(id uint) error
}
