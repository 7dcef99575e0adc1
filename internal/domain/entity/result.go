package entity

import (
	"time"
)

// Result statuses.
const (
	ResultStatusInProgress = "in_progress"
	ResultStatusFinished   = "finished"
)

// Result is one user's attempt at a grade's question set. It is created when
// the user starts a quiz with a frozen snapshot of questions, and mutated
// exactly once by the finish operation which records answers and the score.
type Result struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GradeID    uint       `gorm:"not null;index" json:"grade_id"`
	Grade      *Grade     `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
	Status     string     `gorm:"size:20;not null;default:'in_progress';index" json:"status"`
	Score      int        `gorm:"column:result;not null;default:0" json:"result"`
	TimeSec    int        `gorm:"column:time;not null;default:0" json:"time"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	Questions []ResultQuestion `gorm:"foreignKey:ResultID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name.
func (Result) TableName() string {
	return "results"
}

// IsFinished reports whether the attempt has been scored.
func (r *Result) IsFinished() bool {
	return r.Status == ResultStatusFinished
}

// HasQuestion reports whether the given question id belongs to the attempt's
// snapshot.
func (r *Result) HasQuestion(questionID uint) bool {
	for _, rq := range r.Questions {
		if rq.QuestionID == questionID {
			return true
		}
	}
	return false
}

// QuestionByID returns the snapshot entry for the given question id, or nil
// when the question is not part of the attempt.
func (r *Result) QuestionByID(questionID uint) *ResultQuestion {
	for i := range r.Questions {
		if r.Questions[i].QuestionID == questionID {
			return &r.Questions[i]
		}
	}
	return nil
}

// Elapsed returns the time spent on the attempt relative to now.
func (r *Result) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.StartedAt)
}
