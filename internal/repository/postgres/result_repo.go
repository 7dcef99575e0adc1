package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// ResultRepo implements repository.ResultRepository.
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo creates a new result repository.
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// CreateWithQuestions persists a new result together with its question
// snapshot. GORM inserts the associated ResultQuestion rows in the same
// transaction as the result itself.
func (r *ResultRepo) CreateWithQuestions(result *entity.Result) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
}

// GetByID returns a result with grade, subject, user and the ordered question
// snapshot (including options) preloaded.
func (r *ResultRepo) GetByID(id uint) (*entity.Result, error) {
	var result entity.Result
	err := r.db.
		Preload("User").
		Preload("Grade").
		Preload("Grade.Subject").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("result_questions.position ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Options").
		First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetByUserID returns a user's results newest-first.
func (r *ResultRepo) GetByUserID(userID uint, limit, offset int) ([]entity.Result, error) {
	var results []entity.Result
	q := r.db.
		Preload("Grade").
		Preload("Grade.Subject").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&results).Error
	return results, err
}

// GetByGradeID returns all finished results of a grade ordered by score for
// reporting exports.
func (r *ResultRepo) GetByGradeID(gradeID uint) ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.
		Preload("User").
		Preload("Grade").
		Preload("Grade.Subject").
		Where("grade_id = ? AND status = ?", gradeID, entity.ResultStatusFinished).
		Order("result DESC, time ASC").
		Find(&results).Error
	return results, err
}

// SaveFinishedTx persists the scored result and the answered snapshot rows
// inside the given transaction. The status condition makes the finish write
// single-shot even when the Redis lock is unavailable: a result that was
// finished concurrently matches zero rows and the write is rejected.
func (r *ResultRepo) SaveFinishedTx(tx *gorm.DB, result *entity.Result, questions []entity.ResultQuestion) error {
	res := tx.Model(&entity.Result{}).
		Where("id = ? AND status = ?", result.ID, entity.ResultStatusInProgress).
		Updates(map[string]interface{}{
			"status":      result.Status,
			"result":      result.Score,
			"time":        result.TimeSec,
			"finished_at": result.FinishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}

	for i := range questions {
		rq := &questions[i]
		if err := tx.Model(&entity.ResultQuestion{}).
			Where("id = ?", rq.ID).
			Updates(map[string]interface{}{
				"selected_option_id": rq.SelectedOptionID,
				"is_correct":         rq.IsCorrect,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}
