package entity

import (
	"time"
)

// Option is one selectable answer variant of a question. The correctness flag
// is only exposed on admin authoring endpoints and on finished results.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Variant    string `gorm:"size:500;not null" json:"variant"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name.
func (Option) TableName() string {
	return "options"
}
