package adaptive

import (
	"io"
	"log"
	"time"
)

// Attempt describes one answered question.
type Attempt struct {
	// QuestionIndex is the pool index of the question, -1 if not tracked.
	QuestionIndex int

	// QuestionDifficulty is the effective difficulty of the served question.
	// Zero when unknown.
	QuestionDifficulty float64

	// Score is the 0-10 score. Out-of-range values are clamped.
	Score int
}

// Recommendation is returned after every submission.
type Recommendation struct {
	TargetDifficulty   int   `json:"target_difficulty"`
	ConsecutiveWrong   int   `json:"consecutive_wrong"`
	LastCorrect        *bool `json:"last_correct"`
	ReadyForHigher     bool  `json:"ready_for_higher_difficulty"`
	NeedsReinforcement bool  `json:"needs_reinforcement"`
	LearningTrend      Trend `json:"learning_trend"`
}

// Controller owns the adaptive state of a single session. It is not safe
// for concurrent use; every session gets its own Controller.
type Controller struct {
	state  State
	bounds Bounds
	start  int
	rand   RandomSource
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRandom sets the source used for the random ascent after a correct answer.
func WithRandom(r RandomSource) Option {
	return func(c *Controller) { c.rand = r }
}

// WithClock sets the clock used to timestamp performance records.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger for difficulty transitions.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStart overrides the starting difficulty. Values are clamped to the bounds.
func WithStart(d int) Option {
	return func(c *Controller) { c.start = d }
}

// NewController creates a controller at the start difficulty.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		bounds: DefaultBounds(),
		start:  StartDifficulty,
		rand:   NewRandom(),
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.bounds.Clamp(c.start)
	c.state = State{CurrentDifficulty: c.start}
	return c
}

// Bounds returns the difficulty range.
func (c *Controller) Bounds() Bounds { return c.bounds }

// CurrentDifficulty returns the current target difficulty.
func (c *Controller) CurrentDifficulty() int { return c.state.CurrentDifficulty }

// State returns a copy of the adaptive state.
func (c *Controller) State() State { return c.state.Clone() }

// History returns a copy of the performance history.
func (c *Controller) History() []PerformanceRecord { return c.state.Clone().History }

// SubmitResult records a score for a question whose index and difficulty
// are not tracked by the caller.
func (c *Controller) SubmitResult(score int) Recommendation {
	return c.Submit(Attempt{QuestionIndex: -1, Score: score})
}

// Submit records an answered question and moves the target difficulty.
func (c *Controller) Submit(a Attempt) Recommendation {
	score := ClampScore(a.Score)
	correct := IsCorrect(score)

	c.state.LastAnswerCorrect = &correct
	c.state.History = append(c.state.History, PerformanceRecord{
		QuestionIndex:      a.QuestionIndex,
		Score:              score,
		Difficulty:         c.state.CurrentDifficulty,
		QuestionDifficulty: a.QuestionDifficulty,
		Correct:            correct,
		Timestamp:          c.now(),
	})

	if correct {
		c.handleCorrect()
	} else {
		c.handleIncorrect()
	}

	return c.Recommendation()
}

// handleCorrect resets the streak and jumps to a random harder level.
func (c *Controller) handleCorrect() {
	c.state.ConsecutiveWrong = 0

	from := c.state.CurrentDifficulty
	if from >= c.bounds.Max {
		c.logger.Printf("[Controller] correct answer at max difficulty %d", from)
		return
	}

	higher := make([]int, 0, c.bounds.Max-from)
	for d := from + 1; d <= c.bounds.Max; d++ {
		higher = append(higher, d)
	}
	next := c.rand.Pick(higher)
	c.state.CurrentDifficulty = min(max(next, from+1), c.bounds.Max)

	c.logger.Printf("[Controller] correct answer: difficulty %d -> %d", from, c.state.CurrentDifficulty)
}

// handleIncorrect counts the miss and drops the level after two in a row.
// The streak restarts from zero after a drop.
func (c *Controller) handleIncorrect() {
	c.state.ConsecutiveWrong++

	if c.state.ConsecutiveWrong < DropAfterWrong {
		c.logger.Printf("[Controller] wrong answer: staying at difficulty %d", c.state.CurrentDifficulty)
		return
	}

	from := c.state.CurrentDifficulty
	c.state.CurrentDifficulty = max(c.bounds.Min, from-DropStep)
	c.state.ConsecutiveWrong = 0

	c.logger.Printf("[Controller] %d wrong in a row: difficulty %d -> %d", DropAfterWrong, from, c.state.CurrentDifficulty)
}

// Recommendation computes the recommendation for the current state without
// modifying it.
func (c *Controller) Recommendation() Recommendation {
	scores := Scores(c.state.History)

	var last *bool
	if c.state.LastAnswerCorrect != nil {
		v := *c.state.LastAnswerCorrect
		last = &v
	}

	return Recommendation{
		TargetDifficulty:   c.state.CurrentDifficulty,
		ConsecutiveWrong:   c.state.ConsecutiveWrong,
		LastCorrect:        last,
		ReadyForHigher:     ReadyForHigher(scores),
		NeedsReinforcement: NeedsReinforcement(scores),
		LearningTrend:      ClassifyTrend(scores),
	}
}

// Reset discards all state and returns to the start difficulty.
func (c *Controller) Reset() {
	c.state = State{CurrentDifficulty: c.start}
	c.logger.Printf("[Controller] state reset")
}

// Restore replaces the state with s, typically loaded from a snapshot.
// The difficulty is clamped to the bounds and a negative streak becomes zero.
func (c *Controller) Restore(s State) {
	s = s.Clone()
	s.CurrentDifficulty = c.bounds.Clamp(s.CurrentDifficulty)
	s.ConsecutiveWrong = max(s.ConsecutiveWrong, 0)
	c.state = s
}
