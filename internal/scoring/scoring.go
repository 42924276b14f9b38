// Package scoring defines the contract for the scoring oracle that turns a
// learner's answer into a 0-10 score. Grading itself lives outside this
// repository; Script is a replay oracle for headless runs and tests.
package scoring

import (
	"context"
	"errors"
	"sync"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// ErrScriptExhausted is returned by Script once every score has been used.
var ErrScriptExhausted = errors.New("scoring script exhausted")

// Oracle scores a learner answer against a question.
type Oracle interface {
	Score(ctx context.Context, q bank.Question, userAnswer string) (int, error)
}

// Clamp pins a raw oracle score into the 0-10 range.
func Clamp(score int) int {
	return adaptive.ClampScore(score)
}

// Script replays a fixed sequence of scores, ignoring the question and answer.
type Script struct {
	mu     sync.Mutex
	scores []int
	next   int
}

// NewScript creates a replay oracle.
func NewScript(scores ...int) *Script {
	return &Script{scores: scores}
}

func (s *Script) Score(ctx context.Context, _ bank.Question, _ string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.scores) {
		return 0, ErrScriptExhausted
	}
	v := s.scores[s.next]
	s.next++
	return Clamp(v), nil
}

// Remaining returns how many scores are left.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores) - s.next
}
