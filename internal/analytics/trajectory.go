package analytics

import "github.com/GopalOmotec/echolearn-updated/internal/adaptive"

const (
	// MinTrajectoryPoints is the fewest records a regression is fitted on.
	MinTrajectoryPoints = 3

	slopeThreshold = 0.1
)

// Trajectory is an ordinary least squares fit of score against attempt
// number (0-based).
type Trajectory struct {
	Trend     adaptive.Trend `json:"trend"`
	Slope     float64        `json:"slope"`
	Intercept float64        `json:"intercept"`
	RSquared  float64        `json:"r_squared"`
}

// FitTrajectory fits the regression. With fewer than MinTrajectoryPoints
// records it returns the insufficient_data trend and zero coefficients.
// R² is 0 when every score is identical.
func FitTrajectory(history []adaptive.PerformanceRecord) Trajectory {
	n := len(history)
	if n < MinTrajectoryPoints {
		return Trajectory{Trend: adaptive.TrendInsufficientData}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, r := range history {
		x, y := float64(i), float64(r.Score)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	fn := float64(n)

	slope := (fn*sumXY - sumX*sumY) / (fn*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssTot, ssRes float64
	for i, r := range history {
		y := float64(r.Score)
		fit := slope*float64(i) + intercept
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - fit) * (y - fit)
	}

	var r2 float64
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	}

	t := Trajectory{Slope: slope, Intercept: intercept, RSquared: r2}
	switch {
	case slope > slopeThreshold:
		t.Trend = adaptive.TrendImproving
	case slope < -slopeThreshold:
		t.Trend = adaptive.TrendDeclining
	default:
		t.Trend = adaptive.TrendStable
	}
	return t
}
