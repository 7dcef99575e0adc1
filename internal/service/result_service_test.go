package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

func newTestResultService(resultRepo *MockResultRepo, gradeRepo *MockGradeRepo, questionRepo *MockQuestionRepo, cacheRepo *MockCacheRepo) *ResultService {
	if cacheRepo == nil {
		return NewResultService(resultRepo, gradeRepo, questionRepo, nil, nil, 30*time.Second)
	}
	return NewResultService(resultRepo, gradeRepo, questionRepo, cacheRepo, nil, 30*time.Second)
}

// twoQuestionResult builds an in-progress attempt with two questions of two
// options each; option ids 11/12 belong to question 1 (11 correct), 21/22 to
// question 2 (22 correct).
func twoQuestionResult(userID uint, startedAt time.Time) *entity.Result {
	q1 := &entity.Question{
		ID:      1,
		GradeID: 5,
		Text:    "2+2?",
		Options: []entity.Option{
			{ID: 11, QuestionID: 1, Variant: "4", IsCorrect: true},
			{ID: 12, QuestionID: 1, Variant: "5"},
		},
	}
	q2 := &entity.Question{
		ID:      2,
		GradeID: 5,
		Text:    "3*3?",
		Options: []entity.Option{
			{ID: 21, QuestionID: 2, Variant: "6"},
			{ID: 22, QuestionID: 2, Variant: "9", IsCorrect: true},
		},
	}
	return &entity.Result{
		ID:        100,
		UserID:    userID,
		GradeID:   5,
		Grade:     &entity.Grade{ID: 5, TimeMinutes: 10, QuestionCount: 2, IsActive: true},
		Status:    entity.ResultStatusInProgress,
		StartedAt: startedAt,
		Questions: []entity.ResultQuestion{
			{ID: 1000, ResultID: 100, QuestionID: 1, Question: q1, Position: 0},
			{ID: 1001, ResultID: 100, QuestionID: 2, Question: q2, Position: 1},
		},
	}
}

func TestResultService_StartResult_CreatesSnapshot(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepo)
	gradeRepo := new(MockGradeRepo)
	questionRepo := new(MockQuestionRepo)

	grade := &entity.Grade{ID: 5, Title: "Algebra 1", QuestionCount: 2, IsActive: true}
	questions := []entity.Question{{ID: 1, GradeID: 5}, {ID: 2, GradeID: 5}}

	gradeRepo.On("GetByID", uint(5)).Return(grade, nil)
	questionRepo.On("CountByGradeID", uint(5)).Return(int64(2), nil)
	questionRepo.On("GetRandomByGradeID", uint(5), 2).Return(questions, nil)
	resultRepo.On("CreateWithQuestions", mock.AnythingOfType("*entity.Result")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Result).ID = 100
		}).
		Return(nil)
	loaded := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(loaded, nil)

	svc := newTestResultService(resultRepo, gradeRepo, questionRepo, nil)

	// Act
	result, err := svc.StartResult(7, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(100), result.ID)
	assert.Len(t, result.Questions, 2)

	created := resultRepo.Calls[0].Arguments.Get(0).(*entity.Result)
	assert.Equal(t, entity.ResultStatusInProgress, created.Status)
	assert.Equal(t, uint(7), created.UserID)
	assert.Equal(t, 0, created.Questions[0].Position)
	assert.Equal(t, 1, created.Questions[1].Position)
	resultRepo.AssertExpectations(t)
}

func TestResultService_StartResult_InactiveGrade(t *testing.T) {
	resultRepo := new(MockResultRepo)
	gradeRepo := new(MockGradeRepo)
	questionRepo := new(MockQuestionRepo)

	gradeRepo.On("GetByID", uint(5)).Return(&entity.Grade{ID: 5, QuestionCount: 2, IsActive: false}, nil)

	svc := newTestResultService(resultRepo, gradeRepo, questionRepo, nil)

	_, err := svc.StartResult(7, 5)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	questionRepo.AssertNotCalled(t, "GetRandomByGradeID", mock.Anything, mock.Anything)
	resultRepo.AssertNotCalled(t, "CreateWithQuestions", mock.Anything)
}

func TestResultService_StartResult_NoQuestions(t *testing.T) {
	resultRepo := new(MockResultRepo)
	gradeRepo := new(MockGradeRepo)
	questionRepo := new(MockQuestionRepo)

	gradeRepo.On("GetByID", uint(5)).Return(&entity.Grade{ID: 5, QuestionCount: 2, IsActive: true}, nil)
	questionRepo.On("CountByGradeID", uint(5)).Return(int64(0), nil)

	svc := newTestResultService(resultRepo, gradeRepo, questionRepo, nil)

	_, err := svc.StartResult(7, 5)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	questionRepo.AssertNotCalled(t, "GetRandomByGradeID", mock.Anything, mock.Anything)
	resultRepo.AssertNotCalled(t, "CreateWithQuestions", mock.Anything)
}

func TestResultService_StartResult_ShortPoolStillStarts(t *testing.T) {
	// A grade configured for more questions than it has still starts; the
	// snapshot just holds the whole pool.
	resultRepo := new(MockResultRepo)
	gradeRepo := new(MockGradeRepo)
	questionRepo := new(MockQuestionRepo)

	gradeRepo.On("GetByID", uint(5)).Return(&entity.Grade{ID: 5, QuestionCount: 5, IsActive: true}, nil)
	questionRepo.On("CountByGradeID", uint(5)).Return(int64(2), nil)
	questionRepo.On("GetRandomByGradeID", uint(5), 5).
		Return([]entity.Question{{ID: 1, GradeID: 5}, {ID: 2, GradeID: 5}}, nil)
	resultRepo.On("CreateWithQuestions", mock.AnythingOfType("*entity.Result")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Result).ID = 100
		}).
		Return(nil)
	resultRepo.On("GetByID", uint(100)).Return(twoQuestionResult(7, time.Now()), nil)

	svc := newTestResultService(resultRepo, gradeRepo, questionRepo, nil)

	result, err := svc.StartResult(7, 5)

	require.NoError(t, err)
	created := resultRepo.Calls[0].Arguments.Get(0).(*entity.Result)
	assert.Len(t, created.Questions, 2)
	assert.Equal(t, uint(100), result.ID)
}

func TestResultService_FinishResult_ScoresAnswers(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	result := twoQuestionResult(7, time.Now().Add(-2*time.Minute))
	resultRepo.On("GetByID", uint(100)).Return(result, nil)
	cacheRepo.On("SetNX", "result:100:finish", mock.Anything, mock.Anything).Return(true, nil)
	cacheRepo.On("Delete", "result:100:finish").Return(nil)
	resultRepo.On("SaveFinishedTx", mock.Anything, result, mock.Anything).Return(nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), cacheRepo)

	// Act: one correct answer (question 1 -> option 11), one wrong.
	finished, err := svc.FinishResult(100, 7, FinishInput{
		Answers:        map[uint]uint{1: 11, 2: 21},
		IdempotencyKey: "0d9607c6-0d2a-4b3f-9c3f-111111111111",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ResultStatusFinished, finished.Status)
	assert.Equal(t, 1, finished.Score)
	require.NotNil(t, finished.FinishedAt)
	assert.True(t, finished.Questions[0].IsCorrect)
	assert.False(t, finished.Questions[1].IsCorrect)
	require.NotNil(t, finished.Questions[0].SelectedOptionID)
	assert.Equal(t, uint(11), *finished.Questions[0].SelectedOptionID)
	resultRepo.AssertExpectations(t)
	cacheRepo.AssertExpectations(t)
}

func TestResultService_FinishResult_AlreadyFinishedIsIdempotent(t *testing.T) {
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	result := twoQuestionResult(7, time.Now().Add(-5*time.Minute))
	result.Status = entity.ResultStatusFinished
	result.Score = 2
	resultRepo.On("GetByID", uint(100)).Return(result, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), cacheRepo)

	finished, err := svc.FinishResult(100, 7, FinishInput{
		Answers: map[uint]uint{1: 12, 2: 21},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, finished.Score, "a second finish must not rescore")
	resultRepo.AssertNotCalled(t, "SaveFinishedTx", mock.Anything, mock.Anything, mock.Anything)
	cacheRepo.AssertNotCalled(t, "SetNX", mock.Anything, mock.Anything, mock.Anything)
}

func TestResultService_FinishResult_ConcurrentFinishRejected(t *testing.T) {
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)
	cacheRepo.On("SetNX", "result:100:finish", mock.Anything, mock.Anything).Return(false, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), cacheRepo)

	_, err := svc.FinishResult(100, 7, FinishInput{Answers: map[uint]uint{1: 11}})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	resultRepo.AssertNotCalled(t, "SaveFinishedTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestResultService_FinishResult_LostWriteRaceSurfacesConflict(t *testing.T) {
	// The lock can be skipped when Redis is down; the repo then rejects a
	// second finish through the status-guarded update.
	resultRepo := new(MockResultRepo)
	cacheRepo := new(MockCacheRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)
	cacheRepo.On("SetNX", "result:100:finish", mock.Anything, mock.Anything).Return(false, fmt.Errorf("connection refused"))
	resultRepo.On("SaveFinishedTx", mock.Anything, result, mock.Anything).Return(apperrors.ErrConflict)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), cacheRepo)

	_, err := svc.FinishResult(100, 7, FinishInput{Answers: map[uint]uint{1: 11, 2: 21}})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	resultRepo.AssertExpectations(t)
}

func TestResultService_FinishResult_UnknownQuestionRejected(t *testing.T) {
	resultRepo := new(MockResultRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), nil)

	_, err := svc.FinishResult(100, 7, FinishInput{
		Answers: map[uint]uint{99: 11},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	resultRepo.AssertNotCalled(t, "SaveFinishedTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestResultService_FinishResult_ForeignOptionRejected(t *testing.T) {
	resultRepo := new(MockResultRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), nil)

	// Option 22 belongs to question 2, not question 1.
	_, err := svc.FinishResult(100, 7, FinishInput{
		Answers: map[uint]uint{1: 22},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResultService_FinishResult_WrongUserForbidden(t *testing.T) {
	resultRepo := new(MockResultRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), nil)

	_, err := svc.FinishResult(100, 8, FinishInput{Answers: map[uint]uint{1: 11}})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestResultService_FinishResult_ExpiredScoresZero(t *testing.T) {
	resultRepo := new(MockResultRepo)

	// Grade limit is 10 minutes; the attempt started an hour ago, far past
	// the limit plus grace.
	result := twoQuestionResult(7, time.Now().Add(-time.Hour))
	resultRepo.On("GetByID", uint(100)).Return(result, nil)
	resultRepo.On("SaveFinishedTx", mock.Anything, result, mock.Anything).Return(nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), nil)

	finished, err := svc.FinishResult(100, 7, FinishInput{
		Answers: map[uint]uint{1: 11, 2: 22},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ResultStatusFinished, finished.Status)
	assert.Equal(t, 0, finished.Score, "a late finish scores zero")
	assert.True(t, finished.Questions[0].IsCorrect, "correctness is still recorded")
}

func TestResultService_GetResult_OwnerAndAdminOnly(t *testing.T) {
	resultRepo := new(MockResultRepo)

	result := twoQuestionResult(7, time.Now())
	resultRepo.On("GetByID", uint(100)).Return(result, nil)

	svc := newTestResultService(resultRepo, new(MockGradeRepo), new(MockQuestionRepo), nil)

	_, err := svc.GetResult(100, &entity.User{ID: 7, Role: entity.RoleUser})
	assert.NoError(t, err, "owner may read")

	_, err = svc.GetResult(100, &entity.User{ID: 9, Role: entity.RoleAdmin})
	assert.NoError(t, err, "admin may read")

	_, err = svc.GetResult(100, &entity.User{ID: 9, Role: entity.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
