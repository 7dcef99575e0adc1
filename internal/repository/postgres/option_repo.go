package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// OptionRepo implements repository.OptionRepository.
type OptionRepo struct {
	db *gorm.DB
}

// NewOptionRepo creates a new option repository.
func NewOptionRepo(db *gorm.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// Create persists a new option. The partial unique index on correct options
// turns a second correct answer into ErrConflict.
func (r *OptionRepo) Create(option *entity.Option) error {
	return translateWriteError(r.db.Create(option).Error)
}

// GetByID returns an option by id.
func (r *OptionRepo) GetByID(id uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.First(&option, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// List returns options, narrowed to one question when questionID is non-zero.
func (r *OptionRepo) List(questionID uint) ([]entity.Option, error) {
	var options []entity.Option
	q := r.db.Order("id ASC")
	if questionID != 0 {
		q = q.Where("question_id = ?", questionID)
	}
	err := q.Find(&options).Error
	return options, err
}

// Update persists changes to an option.
func (r *OptionRepo) Update(option *entity.Option) error {
	return translateWriteError(r.db.Save(option).Error)
}

// Delete removes an option by id.
func (r *OptionRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Option{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
