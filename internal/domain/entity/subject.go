package entity

import (
	"time"
)

// Subject is a top-level topic, e.g. "Mathematics". Each subject owns a set of
// difficulty grades.
type Subject struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Title  string  `gorm:"size:100;not null;uniqueIndex" json:"title"`
	Grades []Grade `gorm:"foreignKey:SubjectID" json:"grades,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the GORM table name.
func (Subject) TableName() string {
	return "subjects"
}
