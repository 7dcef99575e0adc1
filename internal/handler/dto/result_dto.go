package dto

import (
	"time"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
)

// ResultQuestionResponse is one entry of an attempt's question snapshot.
// Answer correctness is only revealed on finished attempts.
type ResultQuestionResponse struct {
	ID               uint              `json:"id"`
	QuestionID       uint              `json:"question_id"`
	Position         int               `json:"position"`
	SelectedOptionID *uint             `json:"selected_option_id,omitempty"`
	IsCorrect        *bool             `json:"is_correct,omitempty"`
	Question         *QuestionResponse `json:"question,omitempty"`
}

// ResultResponse is a quiz attempt as exposed over HTTP.
type ResultResponse struct {
	ID         uint                     `json:"id"`
	UserID     uint                     `json:"user_id"`
	User       *entity.User             `json:"user,omitempty"`
	GradeID    uint                     `json:"grade_id"`
	Grade      *entity.Grade            `json:"grade,omitempty"`
	Status     string                   `json:"status"`
	Score      int                      `json:"result"`
	TimeSec    int                      `json:"time"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt *time.Time               `json:"finished_at,omitempty"`
	Questions  []ResultQuestionResponse `json:"questions"`
}

// NewResultResponse converts an attempt. While the attempt is in progress the
// option correctness flags and per-answer verdicts are stripped so that the
// payload used to render the quiz cannot leak answers.
func NewResultResponse(r *entity.Result) ResultResponse {
	reveal := r.IsFinished()
	questions := make([]ResultQuestionResponse, len(r.Questions))
	for i := range r.Questions {
		rq := &r.Questions[i]
		item := ResultQuestionResponse{
			ID:               rq.ID,
			QuestionID:       rq.QuestionID,
			Position:         rq.Position,
			SelectedOptionID: rq.SelectedOptionID,
		}
		if reveal {
			correct := rq.IsCorrect
			item.IsCorrect = &correct
		}
		if rq.Question != nil {
			q := NewQuestionResponse(rq.Question, reveal)
			item.Question = &q
		}
		questions[i] = item
	}
	return ResultResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		User:       r.User,
		GradeID:    r.GradeID,
		Grade:      r.Grade,
		Status:     r.Status,
		Score:      r.Score,
		TimeSec:    r.TimeSec,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Questions:  questions,
	}
}

// NewResultListResponse converts a list of attempts.
func NewResultListResponse(results []entity.Result) []ResultResponse {
	items := make([]ResultResponse, len(results))
	for i := range results {
		items[i] = NewResultResponse(&results[i])
	}
	return items
}
