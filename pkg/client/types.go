package client

import "time"

// User mirrors the API user payload.
type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Note     string `json:"izoh,omitempty"`
	IsActive bool   `json:"is_active"`
}

// IsAdmin reports whether the user holds an admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin" || u.Role == "super-admin"
}

// Subject mirrors the API subject payload including nested grades.
type Subject struct {
	ID     uint    `json:"id"`
	Title  string  `json:"title"`
	Grades []Grade `json:"grades,omitempty"`
}

// Grade mirrors the API grade payload.
type Grade struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	SubjectID     uint     `json:"subject_id"`
	Subject       *Subject `json:"subject,omitempty"`
	TimeMinutes   int      `json:"time"`
	QuestionCount int      `json:"questionCount"`
	IsActive      bool     `json:"is_active"`
}

// Option mirrors the API option payload. IsCorrect is only present on admin
// responses and finished results.
type Option struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Variant    string `json:"variant"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

// Question mirrors the API question payload.
type Question struct {
	ID      uint     `json:"id"`
	GradeID uint     `json:"grade_id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// QuestionPage is one page of the question listing.
type QuestionPage struct {
	Items []Question `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// UserPage is one page of the user listing.
type UserPage struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ResultQuestion is one entry of an attempt's question snapshot.
type ResultQuestion struct {
	ID               uint      `json:"id"`
	QuestionID       uint      `json:"question_id"`
	Position         int       `json:"position"`
	SelectedOptionID *uint     `json:"selected_option_id,omitempty"`
	IsCorrect        *bool     `json:"is_correct,omitempty"`
	Question         *Question `json:"question,omitempty"`
}

// Result mirrors the API result payload.
type Result struct {
	ID         uint             `json:"id"`
	UserID     uint             `json:"user_id"`
	User       *User            `json:"user,omitempty"`
	GradeID    uint             `json:"grade_id"`
	Grade      *Grade           `json:"grade,omitempty"`
	Status     string           `json:"status"`
	Score      int              `json:"result"`
	TimeSec    int              `json:"time"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Questions  []ResultQuestion `json:"questions"`
}

// IsFinished reports whether the attempt has been scored.
func (r *Result) IsFinished() bool {
	return r.Status == "finished"
}

// TotalQuestions returns how many questions the attempt covers. Listing
// payloads omit the question snapshot, so the grade's configured count is the
// fallback; zero means neither is available.
func (r *Result) TotalQuestions() int {
	if len(r.Questions) > 0 {
		return len(r.Questions)
	}
	if r.Grade != nil {
		return r.Grade.QuestionCount
	}
	return 0
}
