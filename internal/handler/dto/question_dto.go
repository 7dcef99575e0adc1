package dto

import (
	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// OptionResponse is an answer option as exposed over HTTP. The correctness
// flag is omitted unless the caller is allowed to see it.
type OptionResponse struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Variant    string `json:"variant"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

// QuestionResponse is a question with its options.
type QuestionResponse struct {
	ID      uint             `json:"id"`
	GradeID uint             `json:"grade_id"`
	Text    string           `json:"question"`
	Grade   *entity.Grade    `json:"grade,omitempty"`
	Options []OptionResponse `json:"options"`
}

// QuestionListResponse is the paginated question listing body.
type QuestionListResponse struct {
	Items []QuestionResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// NewOptionResponse converts an option. revealCorrect controls whether the
// correctness flag is included.
func NewOptionResponse(o *entity.Option, revealCorrect bool) OptionResponse {
	resp := OptionResponse{
		ID:         o.ID,
		QuestionID: o.QuestionID,
		Variant:    o.Variant,
	}
	if revealCorrect {
		correct := o.IsCorrect
		resp.IsCorrect = &correct
	}
	return resp
}

// NewQuestionResponse converts a question with its options.
func NewQuestionResponse(q *entity.Question, revealCorrect bool) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i := range q.Options {
		options[i] = NewOptionResponse(&q.Options[i], revealCorrect)
	}
	return QuestionResponse{
		ID:      q.ID,
		GradeID: q.GradeID,
		Text:    q.Text,
		Grade:   q.Grade,
		Options: options,
	}
}

// NewQuestionListResponse converts a page of questions.
func NewQuestionListResponse(questions []entity.Question, total int64, page, limit int, revealCorrect bool) QuestionListResponse {
	items := make([]QuestionResponse, len(questions))
	for i := range questions {
		items[i] = NewQuestionResponse(&questions[i], revealCorrect)
	}
	return QuestionListResponse{Items: items, Total: total, Page: page, Limit: limit}
}
