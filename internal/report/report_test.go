package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/analytics"
	"github.com/GopalOmotec/echolearn-updated/internal/session"
)

func record(score, difficulty int) adaptive.PerformanceRecord {
	return adaptive.PerformanceRecord{
		Score:              score,
		Difficulty:         difficulty,
		QuestionDifficulty: float64(difficulty),
		Correct:            adaptive.IsCorrect(score),
	}
}

func TestRender_Empty(t *testing.T) {
	out := Render(session.Snapshot{
		SessionID: "abc",
		StartedAt: time.Now(),
		State:     session.StateSnapshot{CurrentDifficulty: 10},
	})
	assert.Contains(t, out, "Session abc")
	assert.Contains(t, out, "No answers recorded yet.")
	assert.NotContains(t, out, "By difficulty")
}

func TestRender_Sections(t *testing.T) {
	history := []adaptive.PerformanceRecord{
		record(9, 10), record(2, 14), record(3, 14), record(8, 12),
	}
	snap := session.Snapshot{
		SessionID:          "s-1",
		StartedAt:          time.Now(),
		Finished:           true,
		State:              session.StateSnapshot{CurrentDifficulty: 15},
		PerformanceHistory: history,
		Analytics:          analytics.Summarize(history),
		Trajectory:         analytics.FitTrajectory(history),
	}

	out := Render(snap)
	for _, want := range []string{
		"Session s-1",
		"finished",
		"Summary",
		"50.0%",
		"Progress",
		"By difficulty",
		"review_fundamentals",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "Trajectory"))
}
