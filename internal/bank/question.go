// Package bank defines the question model shared by the selector, the
// session layer and the stores that supply candidate questions.
package bank

import (
	"context"
	"strings"
)

// Level is a categorical difficulty label.
type Level string

const (
	LevelBasic        Level = "Basic"
	LevelEasy         Level = "Easy"
	LevelIntermediate Level = "Intermediate"
	LevelModerate     Level = "Moderate"
	LevelAdvanced     Level = "Advanced"
	LevelDifficult    Level = "Difficult"
	LevelExpert       Level = "Expert"
)

// UnknownLevelDifficulty is the difficulty of an unrecognized label.
const UnknownLevelDifficulty = 10

var levelDifficulty = map[Level]int{
	LevelBasic:        3,
	LevelEasy:         3,
	LevelIntermediate: 8,
	LevelModerate:     8,
	LevelAdvanced:     13,
	LevelDifficult:    13,
	LevelExpert:       18,
}

// Question is a single bank entry.
type Question struct {
	ID string `json:"id"`

	// Difficulty is the explicit numeric difficulty. Bank pools use 1-100,
	// generated pools use 1-20. Nil when the source only has a Level.
	Difficulty *float64 `json:"difficulty,omitempty"`

	// Level is the categorical label, used when Difficulty is nil.
	Level Level `json:"level,omitempty"`

	Text   string `json:"question"`
	Answer string `json:"answer"`

	Subject    string `json:"subject,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Grade      string `json:"grade,omitempty"`
	AudioHeavy bool   `json:"audio_heavy,omitempty"`
}

// Difficulty returns a pointer to d, for building questions inline.
func Difficulty(d float64) *float64 { return &d }

// LevelDifficulty maps a label to its numeric difficulty. An empty label is
// treated as Basic; any other unrecognized label maps to
// UnknownLevelDifficulty. Matching ignores surrounding space and case.
func LevelDifficulty(l Level) int {
	name := strings.TrimSpace(string(l))
	if name == "" {
		return levelDifficulty[LevelBasic]
	}
	for k, v := range levelDifficulty {
		if strings.EqualFold(string(k), name) {
			return v
		}
	}
	return UnknownLevelDifficulty
}

// EffectiveDifficulty is the numeric difficulty used for matching.
func (q Question) EffectiveDifficulty() float64 {
	if q.Difficulty != nil {
		return *q.Difficulty
	}
	return float64(LevelDifficulty(q.Level))
}

// LevelFor labels a 1-100 bank difficulty: up to 30 is Easy, up to 60 is
// Moderate, anything above is Difficult.
func LevelFor(difficulty float64) Level {
	switch {
	case difficulty <= 30:
		return LevelEasy
	case difficulty <= 60:
		return LevelModerate
	default:
		return LevelDifficult
	}
}

// Filter narrows the candidate set returned by a Repository. Zero values
// mean "no constraint", except that MinDifficulty/MaxDifficulty default to
// the 1-100 bank range.
type Filter struct {
	Subject       string
	Topic         string
	Grade         string
	MinDifficulty float64
	MaxDifficulty float64
	Limit         int
}

// DefaultFilter returns a filter that matches the whole bank.
func DefaultFilter() Filter {
	return Filter{MinDifficulty: 1, MaxDifficulty: 100}
}

// Normalize fills in the default difficulty range and swaps an inverted range.
func (f Filter) Normalize() Filter {
	if f.MinDifficulty == 0 {
		f.MinDifficulty = 1
	}
	if f.MaxDifficulty == 0 {
		f.MaxDifficulty = 100
	}
	if f.MinDifficulty > f.MaxDifficulty {
		f.MinDifficulty, f.MaxDifficulty = f.MaxDifficulty, f.MinDifficulty
	}
	return f
}

// Match reports whether q passes the filter. Questions with no explicit
// difficulty are matched on their level-derived difficulty.
func (f Filter) Match(q Question) bool {
	f = f.Normalize()
	d := q.EffectiveDifficulty()
	if d < f.MinDifficulty || d > f.MaxDifficulty {
		return false
	}
	if f.Subject != "" && !strings.EqualFold(f.Subject, q.Subject) {
		return false
	}
	if f.Topic != "" && !strings.EqualFold(f.Topic, q.Topic) {
		return false
	}
	if f.Grade != "" && f.Grade != q.Grade {
		return false
	}
	return true
}

// Repository supplies candidate questions.
type Repository interface {
	Candidates(ctx context.Context, f Filter) ([]Question, error)
}
