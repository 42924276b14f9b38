// Package session runs one learner's adaptive question session: it couples
// a difficulty controller with the question selector over a fixed pool and
// tracks which questions have been consumed.
package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/bank"
	"github.com/GopalOmotec/echolearn-updated/internal/selector"
)

var (
	// ErrNotStarted is returned by Submit when no question is active.
	ErrNotStarted = errors.New("session has no active question")

	// ErrFinished is returned by Submit once the pool is exhausted.
	ErrFinished = errors.New("session finished: question pool exhausted")
)

// Outcome is the result of one submission.
type Outcome struct {
	// Answered is the pool index of the question that was just scored.
	Answered int

	// Score is the clamped score that was recorded.
	Score int

	Recommendation adaptive.Recommendation

	// Next is the pool index of the next question. Valid only when Done is false.
	Next int

	// Done is true when every question in the pool has been used.
	Done bool
}

// Session is a single learner's run through a question pool. It is not safe
// for concurrent use.
type Session struct {
	id        string
	pool      []bank.Question
	used      map[int]bool
	current   int
	ctrl      *adaptive.Controller
	now       func() time.Time
	startedAt time.Time
	finished  bool
}

type config struct {
	id       string
	now      func() time.Time
	ctrlOpts []adaptive.Option
}

// Option configures a Session.
type Option func(*config)

// WithID sets the session ID instead of generating a UUID.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithClock sets the clock for session and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithController passes options through to the difficulty controller.
func WithController(opts ...adaptive.Option) Option {
	return func(c *config) { c.ctrlOpts = append(c.ctrlOpts, opts...) }
}

// New creates a session over pool. The pool is copied; later changes to the
// caller's slice do not affect the session.
func New(pool []bank.Question, opts ...Option) *Session {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	ctrlOpts := append([]adaptive.Option{adaptive.WithClock(cfg.now)}, cfg.ctrlOpts...)

	return &Session{
		id:        cfg.id,
		pool:      append([]bank.Question(nil), pool...),
		used:      make(map[int]bool),
		current:   -1,
		ctrl:      adaptive.NewController(ctrlOpts...),
		now:       cfg.now,
		startedAt: cfg.now(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Pool returns the session's question pool.
func (s *Session) Pool() []bank.Question { return s.pool }

// State returns a copy of the adaptive state.
func (s *Session) State() adaptive.State { return s.ctrl.State() }

// Recommendation returns the controller's current recommendation.
func (s *Session) Recommendation() adaptive.Recommendation { return s.ctrl.Recommendation() }

// Done reports whether the pool is exhausted.
func (s *Session) Done() bool { return s.finished }

// Remaining returns the number of unused questions.
func (s *Session) Remaining() int { return selector.Remaining(s.pool, s.used) }

// Used returns the consumed pool indices in ascending order.
func (s *Session) Used() []int {
	out := make([]int, 0, len(s.used))
	for i := range s.used {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Start selects the first question at the controller's target difficulty.
// Calling Start again returns the active question without changing it.
func (s *Session) Start() (int, bool) {
	if s.current >= 0 {
		return s.current, true
	}
	return s.advance()
}

// Current returns the active question.
func (s *Session) Current() (bank.Question, int, bool) {
	if s.current < 0 {
		return bank.Question{}, -1, false
	}
	return s.pool[s.current], s.current, true
}

// Submit scores the active question, updates the target difficulty and
// moves to the best unused question for the new target.
func (s *Session) Submit(score int) (Outcome, error) {
	if s.finished {
		return Outcome{}, ErrFinished
	}
	if s.current < 0 {
		return Outcome{}, ErrNotStarted
	}

	answered := s.current
	s.used[answered] = true

	rec := s.ctrl.Submit(adaptive.Attempt{
		QuestionIndex:      answered,
		QuestionDifficulty: s.pool[answered].EffectiveDifficulty(),
		Score:              score,
	})

	out := Outcome{
		Answered:       answered,
		Score:          adaptive.ClampScore(score),
		Recommendation: rec,
	}

	next, ok := s.advance()
	out.Next, out.Done = next, !ok
	return out, nil
}

func (s *Session) advance() (int, bool) {
	idx, ok := selector.FindNext(s.pool, s.used, s.ctrl.CurrentDifficulty())
	if !ok {
		s.current = -1
		s.finished = true
		return -1, false
	}
	s.current = idx
	return idx, true
}

// Reset clears the adaptive state and the used set. The next question has
// to be selected again with Start.
func (s *Session) Reset() {
	s.ctrl.Reset()
	s.used = make(map[int]bool)
	s.current = -1
	s.finished = false
}

// restore loads snapshot state into a fresh session.
func (s *Session) restore(snap Snapshot) error {
	for _, i := range snap.UsedIndices {
		if i < 0 || i >= len(s.pool) {
			return fmt.Errorf("used index %d outside pool of %d questions", i, len(s.pool))
		}
		s.used[i] = true
	}
	if snap.CurrentIndex != nil {
		i := *snap.CurrentIndex
		if i < 0 || i >= len(s.pool) {
			return fmt.Errorf("current index %d outside pool of %d questions", i, len(s.pool))
		}
		if s.used[i] {
			return fmt.Errorf("current index %d is already used", i)
		}
		s.current = i
	}

	s.ctrl.Restore(adaptive.State{
		CurrentDifficulty: snap.State.CurrentDifficulty,
		ConsecutiveWrong:  snap.State.ConsecutiveWrong,
		LastAnswerCorrect: snap.State.LastAnswerCorrect,
		History:           snap.PerformanceHistory,
	})
	s.startedAt = snap.StartedAt
	s.finished = snap.Finished
	return nil
}
