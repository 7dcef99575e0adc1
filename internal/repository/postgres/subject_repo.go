package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// SubjectRepo implements repository.SubjectRepository.
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo creates a new subject repository.
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create persists a new subject. A duplicate title surfaces as ErrConflict.
func (r *SubjectRepo) Create(subject *entity.Subject) error {
	return translateWriteError(r.db.Create(subject).Error)
}

// GetByID returns a subject with its grades preloaded.
func (r *SubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.Preload("Grades").First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// GetAll returns all subjects with grades preloaded, optionally filtered by a
// title search term.
func (r *SubjectRepo) GetAll(search string) ([]entity.Subject, error) {
	var subjects []entity.Subject
	q := r.db.Preload("Grades").Order("title ASC")
	if search != "" {
		q = q.Where("title ILIKE ?", "%"+search+"%")
	}
	err := q.Find(&subjects).Error
	return subjects, err
}

// Update persists changes to a subject.
func (r *SubjectRepo) Update(subject *entity.Subject) error {
	return translateWriteError(r.db.Save(subject).Error)
}

// Delete removes a subject by id.
func (r *SubjectRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Subject{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
