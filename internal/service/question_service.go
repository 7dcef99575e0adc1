package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// QuestionService handles questions and their answer options. Options are
// authored separately from questions; the service keeps the "exactly one
// correct option per question" rule.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
	gradeRepo    repository.GradeRepository
}

// NewQuestionService creates a new question service.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	gradeRepo repository.GradeRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		gradeRepo:    gradeRepo,
	}
}

// ListQuestions returns a page of questions matching the filter and the total
// count.
func (s *QuestionService) ListQuestions(filter repository.QuestionFilter) ([]entity.Question, int64, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	return s.questionRepo.List(filter)
}

// GetQuestion returns one question with options.
func (s *QuestionService) GetQuestion(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// CreateQuestion creates a question under a grade. Options are added
// separately via the option operations.
func (s *QuestionService) CreateQuestion(text string, gradeID uint) (*entity.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if gradeID == 0 {
		return nil, fmt.Errorf("%w: gradeId is required", apperrors.ErrValidation)
	}
	if _, err := s.gradeRepo.GetByID(gradeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: grade does not exist", apperrors.ErrValidation)
		}
		return nil, err
	}

	question := &entity.Question{Text: text, GradeID: gradeID}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(question.ID)
}

// UpdateQuestion updates a question's text and grade.
func (s *QuestionService) UpdateQuestion(id uint, text string, gradeID uint) (*entity.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}

	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if gradeID != 0 && gradeID != question.GradeID {
		if _, err := s.gradeRepo.GetByID(gradeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: grade does not exist", apperrors.ErrValidation)
			}
			return nil, err
		}
		question.GradeID = gradeID
	}
	question.Text = text
	// Save without the preloaded associations to avoid re-inserting options.
	update := &entity.Question{ID: question.ID, GradeID: question.GradeID, Text: question.Text,
		CreatedAt: question.CreatedAt, UpdatedAt: question.UpdatedAt}
	if err := s.questionRepo.Update(update); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(id)
}

// DeleteQuestion removes a question together with its options.
func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.questionRepo.Delete(id)
}

// ListOptions returns options, narrowed to one question when questionID is
// non-zero.
func (s *QuestionService) ListOptions(questionID uint) ([]entity.Option, error) {
	return s.optionRepo.List(questionID)
}

// GetOption returns one option.
func (s *QuestionService) GetOption(id uint) (*entity.Option, error) {
	return s.optionRepo.GetByID(id)
}

// OptionInput holds the data for option creation and update.
type OptionInput struct {
	QuestionID uint
	Variant    string
	IsCorrect  bool
}

func (s *QuestionService) validateOption(input *OptionInput, excludeOptionID uint) error {
	input.Variant = strings.TrimSpace(input.Variant)
	if input.Variant == "" {
		return fmt.Errorf("%w: variant text is required", apperrors.ErrValidation)
	}
	if input.QuestionID == 0 {
		return fmt.Errorf("%w: question_id is required", apperrors.ErrValidation)
	}

	question, err := s.questionRepo.GetByID(input.QuestionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: question does not exist", apperrors.ErrValidation)
		}
		return err
	}

	// Exactly one correct option per question.
	if input.IsCorrect {
		for _, o := range question.Options {
			if o.IsCorrect && o.ID != excludeOptionID {
				return fmt.Errorf("%w: question already has a correct option", apperrors.ErrConflict)
			}
		}
	}
	return nil
}

// CreateOption adds an answer option to a question.
func (s *QuestionService) CreateOption(input OptionInput) (*entity.Option, error) {
	if err := s.validateOption(&input, 0); err != nil {
		return nil, err
	}

	option := &entity.Option{
		QuestionID: input.QuestionID,
		Variant:    input.Variant,
		IsCorrect:  input.IsCorrect,
	}
	if err := s.optionRepo.Create(option); err != nil {
		return nil, err
	}
	return option, nil
}

// UpdateOption updates an answer option.
func (s *QuestionService) UpdateOption(id uint, input OptionInput) (*entity.Option, error) {
	option, err := s.optionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if input.QuestionID == 0 {
		input.QuestionID = option.QuestionID
	}
	if err := s.validateOption(&input, id); err != nil {
		return nil, err
	}

	option.QuestionID = input.QuestionID
	option.Variant = input.Variant
	option.IsCorrect = input.IsCorrect
	if err := s.optionRepo.Update(option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteOption removes an answer option.
func (s *QuestionService) DeleteOption(id uint) error {
	return s.optionRepo.Delete(id)
}

// ImportedQuestion is one parsed row group of a question import file.
type ImportedQuestion struct {
	Text         string
	GradeID      uint
	Variants     []string
	CorrectIndex int
}

// ImportQuestions persists a batch of imported questions with their options.
func (s *QuestionService) ImportQuestions(items []ImportedQuestion) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: import file contains no questions", apperrors.ErrValidation)
	}

	questions := make([]entity.Question, 0, len(items))
	for i, item := range items {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			return 0, fmt.Errorf("%w: row %d: question text is required", apperrors.ErrValidation, i+1)
		}
		if item.GradeID == 0 {
			return 0, fmt.Errorf("%w: row %d: grade id is required", apperrors.ErrValidation, i+1)
		}
		if len(item.Variants) < 2 {
			return 0, fmt.Errorf("%w: row %d: at least two options are required", apperrors.ErrValidation, i+1)
		}
		if item.CorrectIndex < 0 || item.CorrectIndex >= len(item.Variants) {
			return 0, fmt.Errorf("%w: row %d: correct option index out of range", apperrors.ErrValidation, i+1)
		}
		if _, err := s.gradeRepo.GetByID(item.GradeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return 0, fmt.Errorf("%w: row %d: grade %d does not exist", apperrors.ErrValidation, i+1, item.GradeID)
			}
			return 0, err
		}

		options := make([]entity.Option, 0, len(item.Variants))
		for j, variant := range item.Variants {
			options = append(options, entity.Option{
				Variant:   strings.TrimSpace(variant),
				IsCorrect: j == item.CorrectIndex,
			})
		}
		questions = append(questions, entity.Question{
			Text:    item.Text,
			GradeID: item.GradeID,
			Options: options,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}
