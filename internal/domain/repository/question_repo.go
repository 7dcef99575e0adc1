package repository

import (
	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// QuestionFilter narrows question listings. Zero values mean "no filter".
// The one query contract for filtering is subjectId/gradeId; handlers must
// not accept alternative parameter spellings.
type QuestionFilter struct {
	SubjectID uint
	GradeID   uint
	Limit     int
	Offset    int
}

// QuestionRepository defines persistence methods for questions.
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// List returns a page of questions with options preloaded plus the total
	// count matching the filter.
	List(filter QuestionFilter) ([]entity.Question, int64, error)
	// GetRandomByGradeID returns up to limit random questions of a grade with
	// their options preloaded.
	GetRandomByGradeID(gradeID uint, limit int) ([]entity.Question, error)
	CountByGradeID(gradeID uint) (int64, error)
	Update(question *entity.Question) error
	Delete(id uint) error
}

// OptionRepository defines persistence methods for answer options.
type OptionRepository interface {
	Create(option *entity.Option) error
	GetByID(id uint) (*entity.Option, error)
	// List returns options, narrowed to one question when questionID is non-zero.
	List(questionID uint) ([]entity.Option, error)
	Update(option *entity.Option) error
	Delete(id uint) error
}
