package adaptive

import "time"

const (
	// MinDifficulty is the lowest target difficulty the controller produces.
	MinDifficulty = 1

	// MaxDifficulty is the highest target difficulty the controller produces.
	MaxDifficulty = 20

	// StartDifficulty is the midpoint every new session starts at.
	StartDifficulty = 10

	// CorrectThreshold is the minimum score that counts as a correct answer.
	CorrectThreshold = 6

	// MaxScore is the top of the scoring scale.
	MaxScore = 10

	// DropAfterWrong is the streak length that triggers a difficulty drop.
	DropAfterWrong = 2

	// DropStep is how far the target falls after DropAfterWrong misses.
	DropStep = 2
)

// Bounds is the inclusive difficulty range.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultBounds returns the standard 1-20 scale.
func DefaultBounds() Bounds {
	return Bounds{Min: MinDifficulty, Max: MaxDifficulty}
}

// Clamp pins d into [b.Min, b.Max].
func (b Bounds) Clamp(d int) int {
	return min(max(d, b.Min), b.Max)
}

// Contains reports whether d lies inside the bounds.
func (b Bounds) Contains(d int) bool {
	return d >= b.Min && d <= b.Max
}

// PerformanceRecord is one submitted answer. Records are never modified
// after they are appended to a State's history.
type PerformanceRecord struct {
	// QuestionIndex is the pool index of the answered question, -1 if unknown.
	QuestionIndex int `json:"question_index"`

	// Score is the clamped 0-10 score from the scoring oracle.
	Score int `json:"score"`

	// Difficulty is the target difficulty in force when the answer was given.
	Difficulty int `json:"difficulty"`

	// QuestionDifficulty is the effective difficulty of the question that was
	// actually served. Zero when the caller did not supply it.
	QuestionDifficulty float64 `json:"question_difficulty,omitempty"`

	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the adaptive state of one learner session.
type State struct {
	CurrentDifficulty int                 `json:"current_difficulty"`
	ConsecutiveWrong  int                 `json:"consecutive_wrong_same_level"`
	LastAnswerCorrect *bool               `json:"last_answer_correct"`
	History           []PerformanceRecord `json:"performance_history"`
}

// NewState returns a fresh state at the start difficulty.
func NewState() State {
	return State{CurrentDifficulty: StartDifficulty}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.LastAnswerCorrect != nil {
		v := *s.LastAnswerCorrect
		out.LastAnswerCorrect = &v
	}
	if s.History != nil {
		out.History = make([]PerformanceRecord, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// Scores returns the score of every record, oldest first.
func Scores(history []PerformanceRecord) []int {
	out := make([]int, len(history))
	for i, r := range history {
		out[i] = r.Score
	}
	return out
}

// IsCorrect reports whether score meets the correct threshold.
func IsCorrect(score int) bool {
	return score >= CorrectThreshold
}

// ClampScore pins score into [0, MaxScore].
func ClampScore(score int) int {
	return min(max(score, 0), MaxScore)
}
