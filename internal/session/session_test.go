package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// lowest always picks the smallest harder level.
var lowest = adaptive.RandomFunc(func(choices []int) int { return choices[0] })

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func testPool() []bank.Question {
	return []bank.Question{
		{ID: "q0", Text: "basic", Answer: "a", Difficulty: bank.Difficulty(3)},
		{ID: "q1", Text: "moderate one", Answer: "a", Difficulty: bank.Difficulty(8)},
		{ID: "q2", Text: "moderate two", Answer: "a", Difficulty: bank.Difficulty(8)},
		{ID: "q3", Text: "advanced", Answer: "a", Difficulty: bank.Difficulty(13)},
		{ID: "q4", Text: "expert", Answer: "a", Difficulty: bank.Difficulty(18)},
	}
}

func newTestSession(opts ...Option) *Session {
	base := []Option{
		WithID("test-session-id"),
		WithClock(fixedClock()),
		WithController(adaptive.WithRandom(lowest)),
	}
	return New(testPool(), append(base, opts...)...)
}

func TestNew_AssignsUUID(t *testing.T) {
	a := New(testPool())
	b := New(testPool())
	assert.Len(t, a.ID(), 36)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNew_CopiesPool(t *testing.T) {
	pool := testPool()
	s := New(pool)
	pool[0].Text = "changed"
	assert.Equal(t, "basic", s.Pool()[0].Text)
}

func TestSubmit_BeforeStart(t *testing.T) {
	s := newTestSession()
	_, err := s.Submit(7)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestStart_PicksNearestToInitialTarget(t *testing.T) {
	s := newTestSession()
	idx, ok := s.Start()
	require.True(t, ok)
	assert.Equal(t, 1, idx, "first difficulty-8 question is nearest to 10")

	again, ok := s.Start()
	require.True(t, ok)
	assert.Equal(t, idx, again, "Start is idempotent")

	q, cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, cur)
	assert.Equal(t, "q1", q.ID)
}

func TestSubmit_FullRun(t *testing.T) {
	s := newTestSession()
	_, ok := s.Start()
	require.True(t, ok)

	steps := []struct {
		score    int
		answered int
		target   int
		streak   int
		next     int
		done     bool
	}{
		{score: 9, answered: 1, target: 11, streak: 0, next: 3},
		{score: 2, answered: 3, target: 11, streak: 1, next: 2},
		{score: 3, answered: 2, target: 9, streak: 0, next: 0},
		{score: 5, answered: 0, target: 9, streak: 1, next: 4},
		{score: 10, answered: 4, target: 10, streak: 0, next: -1, done: true},
	}

	for i, st := range steps {
		out, err := s.Submit(st.score)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, st.answered, out.Answered, "step %d answered", i)
		assert.Equal(t, st.target, out.Recommendation.TargetDifficulty, "step %d target", i)
		assert.Equal(t, st.streak, out.Recommendation.ConsecutiveWrong, "step %d streak", i)
		assert.Equal(t, st.done, out.Done, "step %d done", i)
		if !st.done {
			assert.Equal(t, st.next, out.Next, "step %d next", i)
		}
	}

	assert.True(t, s.Done())
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Used())

	_, err := s.Submit(8)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestSubmit_RecordsQuestionDifficulty(t *testing.T) {
	pool := []bank.Question{
		{ID: "l1", Text: "labelled", Answer: "a", Level: bank.LevelAdvanced},
		{ID: "l2", Text: "unlabelled", Answer: "a"},
	}
	s := New(pool, WithController(adaptive.WithRandom(lowest)))
	idx, ok := s.Start()
	require.True(t, ok)
	require.Equal(t, 0, idx, "Advanced (13) is nearer to 10 than Basic (3)")

	out, err := s.Submit(12)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Score, "score is clamped")

	h := s.State().History
	require.Len(t, h, 1)
	assert.Equal(t, 10, h[0].Difficulty)
	assert.Equal(t, 13.0, h[0].QuestionDifficulty)
	assert.Equal(t, 0, h[0].QuestionIndex)
	assert.True(t, h[0].Correct)
}

func TestSubmit_NeverRepeatsQuestion(t *testing.T) {
	var pool []bank.Question
	for d := 1; d <= 20; d++ {
		pool = append(pool, bank.Question{Text: "q", Answer: "a", Difficulty: bank.Difficulty(float64(d))})
	}
	s := New(pool, WithController(adaptive.WithRandom(adaptive.NewSeededRandom(7))))
	_, ok := s.Start()
	require.True(t, ok)

	seen := map[int]bool{}
	scores := []int{9, 1, 2, 8, 8, 0, 0, 10, 3, 6}
	for i := 0; !s.Done(); i++ {
		out, err := s.Submit(scores[i%len(scores)])
		require.NoError(t, err)
		assert.False(t, seen[out.Answered], "question %d served twice", out.Answered)
		seen[out.Answered] = true

		d := out.Recommendation.TargetDifficulty
		assert.GreaterOrEqual(t, d, adaptive.MinDifficulty)
		assert.LessOrEqual(t, d, adaptive.MaxDifficulty)
	}
	assert.Len(t, seen, len(pool))
}

func TestEmptyPool(t *testing.T) {
	s := New(nil)
	_, ok := s.Start()
	assert.False(t, ok)
	assert.True(t, s.Done())

	_, err := s.Submit(5)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestReset(t *testing.T) {
	s := newTestSession()
	s.Start()
	_, err := s.Submit(9)
	require.NoError(t, err)

	s.Reset()
	assert.Empty(t, s.Used())
	assert.Equal(t, adaptive.StartDifficulty, s.State().CurrentDifficulty)
	assert.Empty(t, s.State().History)
	assert.False(t, s.Done())

	_, _, ok := s.Current()
	assert.False(t, ok)

	idx, ok := s.Start()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}
