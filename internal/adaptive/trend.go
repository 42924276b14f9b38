package adaptive

// Trend classifies the direction of recent performance.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
	TrendNoData           Trend = "no_data"
)

const (
	// TrendWindow is the number of recent scores the trend looks at.
	TrendWindow = 5

	// ReadinessWindow is the number of recent scores the readiness and
	// reinforcement checks look at.
	ReadinessWindow = 3

	// ReadyScore is the minimum score for every answer in the readiness window.
	ReadyScore = 8

	trendMargin = 1.0
)

// ClassifyTrend compares the mean of the older half of the last TrendWindow
// scores with the mean of the newer half. The older half holds floor(n/2)
// scores, the newer half the remainder.
func ClassifyTrend(scores []int) Trend {
	if len(scores) < TrendWindow {
		return TrendInsufficientData
	}
	recent := scores[len(scores)-TrendWindow:]
	split := len(recent) / 2

	first := mean(recent[:split])
	second := mean(recent[split:])

	switch {
	case second > first+trendMargin:
		return TrendImproving
	case second < first-trendMargin:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ReadyForHigher reports whether the last ReadinessWindow scores are all at
// least ReadyScore.
func ReadyForHigher(scores []int) bool {
	return allRecent(scores, func(s int) bool { return s >= ReadyScore })
}

// NeedsReinforcement reports whether the last ReadinessWindow scores are all
// below the correct threshold.
func NeedsReinforcement(scores []int) bool {
	return allRecent(scores, func(s int) bool { return s < CorrectThreshold })
}

func allRecent(scores []int, ok func(int) bool) bool {
	if len(scores) < ReadinessWindow {
		return false
	}
	for _, s := range scores[len(scores)-ReadinessWindow:] {
		if !ok(s) {
			return false
		}
	}
	return true
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
