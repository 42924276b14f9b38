// Package analytics derives read-only reports from a session's
// performance history. Nothing here mutates its input.
package analytics

import "github.com/GopalOmotec/echolearn-updated/internal/adaptive"

// Advice is a machine-readable recommendation. Rendering it as text is left
// to the presentation layer.
type Advice string

const (
	AdviceAdvance            Advice = "advance"
	AdviceStrengthen         Advice = "strengthen"
	AdviceReviewFundamentals Advice = "review_fundamentals"
	AdviceKeepMomentum       Advice = "keep_momentum"
	AdviceRevisitPrevious    Advice = "revisit_previous"
	AdviceSystemAdjusting    Advice = "system_adjusting"
)

// Summary is the headline view of a session.
type Summary struct {
	TotalQuestions        int            `json:"total_questions"`
	CorrectAnswers        int            `json:"correct_answers"`
	AccuracyRate          float64        `json:"accuracy_rate"`
	AverageScore          float64        `json:"average_score"`
	DifficultyProgression []int          `json:"difficulty_progression"`
	LearningTrend         adaptive.Trend `json:"learning_trend"`
	Advice                []Advice       `json:"recommendations"`
}

// Summarize computes the session summary. An empty history yields zero
// rates and the no_data trend.
func Summarize(history []adaptive.PerformanceRecord) Summary {
	if len(history) == 0 {
		return Summary{
			DifficultyProgression: []int{},
			LearningTrend:         adaptive.TrendNoData,
			Advice:                []Advice{},
		}
	}

	s := Summary{
		TotalQuestions:        len(history),
		DifficultyProgression: make([]int, len(history)),
	}
	total := 0
	for i, r := range history {
		if r.Correct {
			s.CorrectAnswers++
		}
		total += r.Score
		s.DifficultyProgression[i] = r.Difficulty
	}
	s.AccuracyRate = float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
	s.AverageScore = float64(total) / float64(s.TotalQuestions)
	s.LearningTrend = adaptive.ClassifyTrend(adaptive.Scores(history))
	s.Advice = advise(s, trailingWrong(history))
	return s
}

func advise(s Summary, wrongStreak int) []Advice {
	var out []Advice
	switch {
	case s.AccuracyRate >= 80:
		out = append(out, AdviceAdvance)
	case s.AccuracyRate >= 60:
		out = append(out, AdviceStrengthen)
	default:
		out = append(out, AdviceReviewFundamentals)
	}

	switch s.LearningTrend {
	case adaptive.TrendImproving:
		out = append(out, AdviceKeepMomentum)
	case adaptive.TrendDeclining:
		out = append(out, AdviceRevisitPrevious)
	}

	if wrongStreak >= adaptive.DropAfterWrong {
		out = append(out, AdviceSystemAdjusting)
	}
	return out
}

// trailingWrong counts incorrect answers at the end of the history.
func trailingWrong(history []adaptive.PerformanceRecord) int {
	n := 0
	for i := len(history) - 1; i >= 0 && !history[i].Correct; i-- {
		n++
	}
	return n
}
