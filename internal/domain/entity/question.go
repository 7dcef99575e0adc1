package entity

import (
	"time"
)

// Question is a prompt with multiple answer options, exactly one of which is
// marked correct.
type Question struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	GradeID uint     `gorm:"not null;index" json:"grade_id"`
	Grade   *Grade   `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
	Text    string   `gorm:"column:question;size:500;not null" json:"question"`
	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name.
func (Question) TableName() string {
	return "questions"
}

// CorrectOptionID returns the id of the correct option, or 0 when the
// question has none loaded.
func (q *Question) CorrectOptionID() uint {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return 0
}

// IsCorrectOption reports whether the given option id is the correct answer.
func (q *Question) IsCorrectOption(optionID uint) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o.IsCorrect
		}
	}
	return false
}

// HasOption reports whether the given option id belongs to this question.
func (q *Question) HasOption(optionID uint) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// OptionsCount returns the number of answer options.
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
