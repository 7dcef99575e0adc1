package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// GradeRepo implements repository.GradeRepository.
type GradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo creates a new grade repository.
func NewGradeRepo(db *gorm.DB) *GradeRepo {
	return &GradeRepo{db: db}
}

// Create persists a new grade.
func (r *GradeRepo) Create(grade *entity.Grade) error {
	return r.db.Create(grade).Error
}

// GetByID returns a grade with its subject preloaded.
func (r *GradeRepo) GetByID(id uint) (*entity.Grade, error) {
	var grade entity.Grade
	err := r.db.Preload("Subject").First(&grade, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &grade, nil
}

// List returns grades with subjects preloaded, narrowed to one subject when
// subjectID is non-zero.
func (r *GradeRepo) List(subjectID uint) ([]entity.Grade, error) {
	var grades []entity.Grade
	q := r.db.Preload("Subject").Order("title ASC")
	if subjectID != 0 {
		q = q.Where("subject_id = ?", subjectID)
	}
	err := q.Find(&grades).Error
	return grades, err
}

// Update persists changes to a grade.
func (r *GradeRepo) Update(grade *entity.Grade) error {
	return r.db.Save(grade).Error
}

// Delete removes a grade by id.
func (r *GradeRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Grade{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
