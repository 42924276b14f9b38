// Package selector picks the next question for a target difficulty.
package selector

import (
	"math"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// FindNext returns the index of the best unused question in pool for the
// target difficulty.
//
// The first unused question whose effective difficulty equals target wins.
// Otherwise the unused question with the smallest absolute distance to
// target is returned, the earliest one on ties. ok is false only when every
// index in pool is used.
func FindNext(pool []bank.Question, used map[int]bool, target int) (index int, ok bool) {
	want := float64(target)

	for i, q := range pool {
		if used[i] {
			continue
		}
		if q.EffectiveDifficulty() == want {
			return i, true
		}
	}

	best, bestDist := -1, math.Inf(1)
	for i, q := range pool {
		if used[i] {
			continue
		}
		if d := math.Abs(q.EffectiveDifficulty() - want); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Remaining counts the unused questions in pool.
func Remaining(pool []bank.Question, used map[int]bool) int {
	n := 0
	for i := range pool {
		if !used[i] {
			n++
		}
	}
	return n
}
