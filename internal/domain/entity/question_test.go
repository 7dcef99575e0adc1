package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleQuestion() *Question {
	return &Question{
		ID:   1,
		Text: "2+2?",
		Options: []Option{
			{ID: 11, QuestionID: 1, Variant: "3"},
			{ID: 12, QuestionID: 1, Variant: "4", IsCorrect: true},
			{ID: 13, QuestionID: 1, Variant: "5"},
		},
	}
}

func TestQuestion_CorrectOptionID(t *testing.T) {
	q := sampleQuestion()
	assert.Equal(t, uint(12), q.CorrectOptionID())
	assert.Equal(t, uint(0), (&Question{}).CorrectOptionID())
}

func TestQuestion_IsCorrectOption(t *testing.T) {
	q := sampleQuestion()

	assert.True(t, q.IsCorrectOption(12))
	assert.False(t, q.IsCorrectOption(11))
	assert.False(t, q.IsCorrectOption(999), "unknown option is never correct")
}

func TestQuestion_HasOption(t *testing.T) {
	q := sampleQuestion()

	assert.True(t, q.HasOption(11))
	assert.False(t, q.HasOption(999))
}

func TestGrade_TimeLimit(t *testing.T) {
	assert.Equal(t, 10*time.Minute, (&Grade{TimeMinutes: 10}).TimeLimit())
	assert.True(t, (&Grade{TimeMinutes: 10}).HasTimeLimit())
	assert.False(t, (&Grade{}).HasTimeLimit(), "zero minutes means no limit")
}

func TestResult_QuestionSnapshot(t *testing.T) {
	r := &Result{
		Questions: []ResultQuestion{
			{QuestionID: 1, Position: 0},
			{QuestionID: 2, Position: 1},
		},
	}

	assert.True(t, r.HasQuestion(1))
	assert.False(t, r.HasQuestion(3))

	rq := r.QuestionByID(2)
	assert.NotNil(t, rq)
	assert.Equal(t, 1, rq.Position)
	assert.Nil(t, r.QuestionByID(3))
}

func TestResult_Elapsed(t *testing.T) {
	started := time.Now().Add(-90 * time.Second)
	r := &Result{StartedAt: started}

	elapsed := r.Elapsed(time.Now())
	assert.InDelta(t, 90, elapsed.Seconds(), 1)
}
