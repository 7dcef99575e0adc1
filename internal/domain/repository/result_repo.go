package repository

import (
	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// ResultRepository defines persistence methods for quiz attempts.
type ResultRepository interface {
	// CreateWithQuestions persists a new result together with its ordered
	// question snapshot in one transaction.
	CreateWithQuestions(result *entity.Result) error
	// GetByID returns a result with its grade (and subject), user and the
	// question snapshot including options preloaded.
	GetByID(id uint) (*entity.Result, error)
	// GetByUserID returns a user's results newest-first, with grade and
	// subject preloaded.
	GetByUserID(userID uint, limit, offset int) ([]entity.Result, error)
	// GetByGradeID returns all finished results of a grade for reporting.
	GetByGradeID(gradeID uint) ([]entity.Result, error)
	// SaveFinishedTx persists the scored result and its answered snapshot
	// rows inside the given transaction.
	SaveFinishedTx(tx *gorm.DB, result *entity.Result, questions []entity.ResultQuestion) error
}
