package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// QuestionRepo implements repository.QuestionRepository.
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo creates a new question repository.
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create persists a new question.
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch persists multiple questions (with nested options) at once.
// Used by the xlsx import.
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByID returns a question with its options and grade preloaded.
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Options").Preload("Grade").Preload("Grade.Subject").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// List returns a page of questions matching the filter plus the total count.
func (r *QuestionRepo) List(filter repository.QuestionFilter) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	base := r.db.Model(&entity.Question{})
	if filter.GradeID != 0 {
		base = base.Where("grade_id = ?", filter.GradeID)
	} else if filter.SubjectID != 0 {
		base = base.Joins("JOIN grades ON grades.id = questions.grade_id").
			Where("grades.subject_id = ?", filter.SubjectID)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Preload("Options").Preload("Grade").Preload("Grade.Subject").
		Order("questions.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := q.Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// GetRandomByGradeID returns up to limit random questions of a grade with
// options preloaded.
func (r *QuestionRepo) GetRandomByGradeID(gradeID uint, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Preload("Options").
		Where("grade_id = ?", gradeID).
		Order("RANDOM()").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// CountByGradeID returns the number of questions of a grade.
func (r *QuestionRepo) CountByGradeID(gradeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("grade_id = ?", gradeID).Count(&count).Error
	return count, err
}

// Update persists changes to a question.
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete removes a question and its options.
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&entity.Option{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}
