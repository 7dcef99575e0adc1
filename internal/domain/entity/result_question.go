package entity

import (
	"time"
)

// ResultQuestion is one entry of a result's ordered question snapshot. The
// selected option and correctness are filled in by the finish operation.
type ResultQuestion struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ResultID         uint      `gorm:"not null;index" json:"result_id"`
	QuestionID       uint      `gorm:"not null;index" json:"question_id"`
	Question         *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Position         int       `gorm:"not null;default:0" json:"position"`
	SelectedOptionID *uint     `json:"selected_option_id,omitempty"`
	IsCorrect        bool      `gorm:"not null;default:false" json:"is_correct"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName defines the GORM table name.
func (ResultQuestion) TableName() string {
	return "result_questions"
}
