package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/excellent-grade/gradetest-api/internal/domain/entity"
	"github.com/excellent-grade/gradetest-api/internal/domain/repository"
	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

const finishLockTTL = 30 * time.Second

// ResultService orchestrates quiz attempts: starting an attempt freezes a
// random question snapshot for the grade, finishing it scores the submitted
// answers exactly once.
type ResultService struct {
	resultRepo   repository.ResultRepository
	gradeRepo    repository.GradeRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
	db           *gorm.DB
	finishGrace  time.Duration
}

// NewResultService creates a new result service.
func NewResultService(
	resultRepo repository.ResultRepository,
	gradeRepo repository.GradeRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
	finishGrace time.Duration,
) *ResultService {
	if finishGrace <= 0 {
		finishGrace = 30 * time.Second
	}
	return &ResultService{
		resultRepo:   resultRepo,
		gradeRepo:    gradeRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
		db:           db,
		finishGrace:  finishGrace,
	}
}

// StartResult creates a new in-progress attempt for the grade with a random
// snapshot of grade.QuestionCount questions. Exactly one result is created
// per call.
func (s *ResultService) StartResult(userID, gradeID uint) (*entity.Result, error) {
	grade, err := s.gradeRepo.GetByID(gradeID)
	if err != nil {
		return nil, err
	}
	if !grade.IsActive {
		return nil, fmt.Errorf("%w: grade is not active", apperrors.ErrConflict)
	}
	if grade.QuestionCount <= 0 {
		return nil, fmt.Errorf("%w: grade has no question count configured", apperrors.ErrConflict)
	}

	pool, err := s.questionRepo.CountByGradeID(gradeID)
	if err != nil {
		return nil, err
	}
	if pool == 0 {
		return nil, fmt.Errorf("%w: grade has no questions", apperrors.ErrConflict)
	}
	if pool < int64(grade.QuestionCount) {
		log.Printf("[ResultService] grade %d has only %d of %d configured questions",
			gradeID, pool, grade.QuestionCount)
	}

	questions, err := s.questionRepo.GetRandomByGradeID(gradeID, grade.QuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: grade has no questions", apperrors.ErrConflict)
	}

	snapshot := make([]entity.ResultQuestion, len(questions))
	for i, q := range questions {
		snapshot[i] = entity.ResultQuestion{QuestionID: q.ID, Position: i}
	}

	result := &entity.Result{
		UserID:    userID,
		GradeID:   gradeID,
		Status:    entity.ResultStatusInProgress,
		StartedAt: time.Now(),
		Questions: snapshot,
	}
	if err := s.resultRepo.CreateWithQuestions(result); err != nil {
		log.Printf("[ResultService] failed to create result for user %d grade %d: %v", userID, gradeID, err)
		return nil, err
	}

	return s.resultRepo.GetByID(result.ID)
}

// GetResult returns one attempt. Only the owner and admins may read it.
func (s *ResultService) GetResult(id uint, requester *entity.User) (*entity.Result, error) {
	result, err := s.resultRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if requester != nil && result.UserID != requester.ID && !requester.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return result, nil
}

// GetUserResults returns a user's attempts newest-first.
func (s *ResultService) GetUserResults(userID uint, requester *entity.User, limit, offset int) ([]entity.Result, error) {
	if requester != nil && userID != requester.ID && !requester.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.resultRepo.GetByUserID(userID, limit, offset)
}

// GetGradeResults returns all finished attempts of a grade for reporting.
func (s *ResultService) GetGradeResults(gradeID uint) ([]entity.Result, error) {
	return s.resultRepo.GetByGradeID(gradeID)
}

// FinishInput holds a finish submission: the complete answer map keyed by
// question id plus the session timestamps measured on the client.
type FinishInput struct {
	Answers        map[uint]uint
	StartedAt      time.Time
	FinishedAt     time.Time
	IdempotencyKey string
}

// FinishResult scores an attempt. Finishing an already-finished result
// returns it unchanged, so a retried submission cannot double-score.
// Concurrent submissions of the same result are serialized by a Redis lock.
// A submission arriving after the grade's time limit plus the configured
// grace is recorded as expired with a zero score.
func (s *ResultService) FinishResult(resultID, userID uint, input FinishInput) (*entity.Result, error) {
	result, err := s.resultRepo.GetByID(resultID)
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if result.IsFinished() {
		// Idempotent: the first finish won, return its outcome.
		return result, nil
	}

	if s.cacheRepo != nil {
		lockKey := fmt.Sprintf("result:%d:finish", resultID)
		ok, lockErr := s.cacheRepo.SetNX(lockKey, input.IdempotencyKey, finishLockTTL)
		if lockErr != nil {
			log.Printf("[ResultService] finish lock unavailable for result %d: %v", resultID, lockErr)
		} else if !ok {
			return nil, fmt.Errorf("%w: finish already in progress", apperrors.ErrConflict)
		} else {
			defer func() {
				if err := s.cacheRepo.Delete(lockKey); err != nil {
					log.Printf("[ResultService] failed to release finish lock for result %d: %v", resultID, err)
				}
			}()
		}
	}

	// Every answer must reference a question of this attempt's snapshot and
	// an option of that question.
	for questionID, optionID := range input.Answers {
		rq := result.QuestionByID(questionID)
		if rq == nil {
			return nil, fmt.Errorf("%w: answer references question %d outside this attempt", apperrors.ErrValidation, questionID)
		}
		if rq.Question == nil || !rq.Question.HasOption(optionID) {
			return nil, fmt.Errorf("%w: option %d does not belong to question %d", apperrors.ErrValidation, optionID, questionID)
		}
	}

	now := time.Now()
	elapsed := result.Elapsed(now)

	expired := false
	if result.Grade != nil && result.Grade.HasTimeLimit() && elapsed > result.Grade.TimeLimit()+s.finishGrace {
		expired = true
		log.Printf("[ResultService] result %d finished after the time limit (%s elapsed), scoring as expired", resultID, elapsed)
	}

	score := 0
	for i := range result.Questions {
		rq := &result.Questions[i]
		optionID, answered := input.Answers[rq.QuestionID]
		if !answered {
			continue
		}
		selected := optionID
		rq.SelectedOptionID = &selected
		rq.IsCorrect = rq.Question.IsCorrectOption(optionID)
		if rq.IsCorrect {
			score++
		}
	}
	if expired {
		score = 0
	}

	result.Status = entity.ResultStatusFinished
	result.Score = score
	result.TimeSec = s.elapsedSeconds(elapsed, input)
	result.FinishedAt = &now

	var tx *gorm.DB
	if s.db != nil {
		tx = s.db.Begin()
		if tx.Error != nil {
			return nil, tx.Error
		}
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()
	}
	if err := s.resultRepo.SaveFinishedTx(tx, result, result.Questions); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	return s.resultRepo.GetByID(resultID)
}

// elapsedSeconds picks the reported attempt duration: the client-measured
// span when it is sane, otherwise the server-measured one.
func (s *ResultService) elapsedSeconds(serverElapsed time.Duration, input FinishInput) int {
	elapsed := serverElapsed
	if !input.StartedAt.IsZero() && input.FinishedAt.After(input.StartedAt) {
		clientElapsed := input.FinishedAt.Sub(input.StartedAt)
		if clientElapsed < elapsed {
			elapsed = clientElapsed
		}
	}
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Seconds())
}
