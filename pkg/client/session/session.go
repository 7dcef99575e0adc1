// Package session implements the quiz-taking state machine on top of the API
// client: start an attempt, answer questions, navigate, submit once.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/excellent-grade/gradetest-api/pkg/client"
)

// State is the quiz session lifecycle state.
type State int

const (
	// StateIdle is the initial state, before any attempt is started.
	StateIdle State = iota
	// StateLoading covers the start requests (create attempt, fetch questions).
	StateLoading
	// StateReady means questions are loaded and the user is answering.
	StateReady
	// StateSubmitting covers the finish request.
	StateSubmitting
	// StateFinished means the attempt has been scored.
	StateFinished
	// StateFailed means the start sequence failed. A failed submit does not
	// enter this state; the session returns to StateReady for a retry.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one quiz attempt in progress. Exactly one server-side result is
// created per Start call; a retried Submit reuses the same idempotency key,
// so the attempt cannot be scored twice. Safe for concurrent use.
type Session struct {
	api *client.Client

	mu        sync.Mutex
	state     State
	errMsg    string
	result    *client.Result
	questions []client.Question
	index     int
	answers   map[uint]uint
	idemKey   string
	startedAt time.Time
}

// New creates an idle session.
func New(api *client.Client) *Session {
	return &Session{
		api:     api,
		state:   StateIdle,
		answers: make(map[uint]uint),
	}
}

// Start begins an attempt for the grade: it creates the server-side result,
// then fetches the frozen question snapshot. Both subject and grade must be
// chosen; a zero id aborts before any network call.
func (s *Session) Start(ctx context.Context, subjectID, gradeID uint) error {
	if subjectID == 0 || gradeID == 0 {
		return fmt.Errorf("session: subject and grade must be selected")
	}

	s.mu.Lock()
	if s.state == StateLoading || s.state == StateReady || s.state == StateSubmitting {
		s.mu.Unlock()
		return fmt.Errorf("session: an attempt is already in progress")
	}
	s.state = StateLoading
	s.errMsg = ""
	s.result = nil
	s.questions = nil
	s.index = 0
	s.answers = make(map[uint]uint)
	s.idemKey = uuid.NewString()
	s.mu.Unlock()

	created, err := s.api.StartResult(ctx, gradeID)
	if err != nil {
		s.fail(err)
		return err
	}

	// The create response may omit nested questions; the follow-up fetch is
	// the authoritative snapshot.
	full, err := s.api.GetResult(ctx, created.ID)
	if err != nil {
		s.fail(err)
		return err
	}

	questions := make([]client.Question, 0, len(full.Questions))
	for _, rq := range full.Questions {
		if rq.Question != nil {
			questions = append(questions, *rq.Question)
		}
	}
	if len(questions) == 0 {
		err := fmt.Errorf("session: attempt %d has no questions", full.ID)
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.state = StateReady
	s.result = full
	s.questions = questions
	s.startedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.errMsg = err.Error()
	s.mu.Unlock()
}

// Answer records the selected option for a question. Only questions of the
// loaded snapshot can be answered, and only while the session is ready.
func (s *Session) Answer(questionID, optionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return fmt.Errorf("session: cannot answer in state %s", s.state)
	}

	for i := range s.questions {
		q := &s.questions[i]
		if q.ID != questionID {
			continue
		}
		for _, o := range q.Options {
			if o.ID == optionID {
				s.answers[questionID] = optionID
				return nil
			}
		}
		return fmt.Errorf("session: option %d does not belong to question %d", optionID, questionID)
	}
	return fmt.Errorf("session: question %d is not part of this attempt", questionID)
}

// Next advances to the next question. It is a no-op at the last question and
// while the current question is unanswered.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady || s.index >= len(s.questions)-1 {
		return
	}
	if _, answered := s.answers[s.questions[s.index].ID]; !answered {
		return
	}
	s.index++
}

// Prev steps back to the previous question. It is a no-op at the first one.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady || s.index == 0 {
		return
	}
	s.index--
}

// CanSubmit reports whether the attempt is ready to be submitted: the user is
// on the last question and every question has an answer.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitLocked()
}

func (s *Session) canSubmitLocked() bool {
	if s.state != StateReady || len(s.questions) == 0 {
		return false
	}
	if s.index != len(s.questions)-1 {
		return false
	}
	for _, q := range s.questions {
		if _, answered := s.answers[q.ID]; !answered {
			return false
		}
	}
	return true
}

// Submit posts the complete answer map. On failure the session returns to
// ready with the error recorded, and a retry reuses the same idempotency key.
func (s *Session) Submit(ctx context.Context) (*client.Result, error) {
	s.mu.Lock()
	if !s.canSubmitLocked() {
		s.mu.Unlock()
		return nil, fmt.Errorf("session: not ready to submit")
	}
	s.state = StateSubmitting
	s.errMsg = ""

	answers := make(map[uint]uint, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	input := client.FinishInput{
		Answers:        answers,
		StartedAt:      s.startedAt,
		FinishedAt:     time.Now(),
		IdempotencyKey: s.idemKey,
	}
	resultID := s.result.ID
	s.mu.Unlock()

	scored, err := s.api.FinishResult(ctx, resultID, input)
	if err != nil {
		s.mu.Lock()
		s.state = StateReady
		s.errMsg = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.state = StateFinished
	s.result = scored
	s.mu.Unlock()
	return scored, nil
}

// Reset returns the session to idle, discarding any loaded attempt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.errMsg = ""
	s.result = nil
	s.questions = nil
	s.index = 0
	s.answers = make(map[uint]uint)
	s.idemKey = ""
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last recorded error message, if any.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Result returns the loaded or scored attempt, or nil.
func (s *Session) Result() *client.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Questions returns the ordered question snapshot.
func (s *Session) Questions() []client.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]client.Question, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// Current returns the question at the navigation index, or nil outside of
// ready and finished states.
func (s *Session) Current() *client.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 || s.index >= len(s.questions) {
		return nil
	}
	q := s.questions[s.index]
	return &q
}

// Index returns the navigation index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() map[uint]uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make(map[uint]uint, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return answers
}

// Answered returns how many questions have an answer.
func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}
