package entity

import (
	"time"
)

// Grade is a difficulty tier within a subject. It carries the number of
// questions a quiz attempt draws and the time limit in minutes.
type Grade struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Title         string   `gorm:"size:100;not null" json:"title"`
	SubjectID     uint     `gorm:"not null;index" json:"subject_id"`
	Subject       *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	TimeMinutes   int      `gorm:"column:time;not null;default:0" json:"time"`
	QuestionCount int      `gorm:"not null;default:0" json:"questionCount"`
	IsActive      bool     `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name.
func (Grade) TableName() string {
	return "grades"
}

// TimeLimit returns the configured time limit as a duration. Zero means
// the grade has no limit.
func (g *Grade) TimeLimit() time.Duration {
	return time.Duration(g.TimeMinutes) * time.Minute
}

// HasTimeLimit reports whether the grade enforces a time limit.
func (g *Grade) HasTimeLimit() bool {
	return g.TimeMinutes > 0
}
