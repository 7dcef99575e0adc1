package repository

import (
	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// SubjectRepository defines persistence methods for subjects.
type SubjectRepository interface {
	Create(subject *entity.Subject) error
	GetByID(id uint) (*entity.Subject, error)
	// GetAll returns subjects with their grades preloaded. A non-empty search
	// narrows the list to titles containing the term (case-insensitive).
	GetAll(search string) ([]entity.Subject, error)
	Update(subject *entity.Subject) error
	Delete(id uint) error
}

// GradeRepository defines persistence methods for grades.
type GradeRepository interface {
	Create(grade *entity.Grade) error
	GetByID(id uint) (*entity.Grade, error)
	// List returns grades, narrowed to one subject when subjectID is non-zero.
	List(subjectID uint) ([]entity.Grade, error)
	Update(grade *entity.Grade) error
	Delete(id uint) error
}
