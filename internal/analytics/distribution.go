package analytics

import (
	"sort"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
)

// Bucket aggregates the answers given at one attempted-at difficulty.
type Bucket struct {
	Difficulty   int     `json:"difficulty"`
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Scores       []int   `json:"scores"`
	AverageScore float64 `json:"average_score"`
	Accuracy     float64 `json:"accuracy"`
}

// Distribution groups the history by attempted-at difficulty, ordered by
// difficulty ascending.
func Distribution(history []adaptive.PerformanceRecord) []Bucket {
	byLevel := make(map[int]*Bucket)
	for _, r := range history {
		b, ok := byLevel[r.Difficulty]
		if !ok {
			b = &Bucket{Difficulty: r.Difficulty}
			byLevel[r.Difficulty] = b
		}
		b.Total++
		if r.Correct {
			b.Correct++
		}
		b.Scores = append(b.Scores, r.Score)
	}

	out := make([]Bucket, 0, len(byLevel))
	for _, b := range byLevel {
		sum := 0
		for _, s := range b.Scores {
			sum += s
		}
		b.AverageScore = float64(sum) / float64(b.Total)
		b.Accuracy = float64(b.Correct) / float64(b.Total) * 100
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	return out
}

// Chart is the series data for a progress plot.
type Chart struct {
	Questions    []int `json:"questions"`
	Scores       []int `json:"scores"`
	Difficulties []int `json:"difficulties"`
}

// ProgressChart returns 1-based question numbers alongside each score and
// attempted-at difficulty.
func ProgressChart(history []adaptive.PerformanceRecord) Chart {
	c := Chart{
		Questions:    make([]int, len(history)),
		Scores:       make([]int, len(history)),
		Difficulties: make([]int, len(history)),
	}
	for i, r := range history {
		c.Questions[i] = i + 1
		c.Scores[i] = r.Score
		c.Difficulties[i] = r.Difficulty
	}
	return c
}
