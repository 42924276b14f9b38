package adaptive

import "math/rand/v2"

// RandomSource draws one element uniformly from a non-empty set of
// difficulty levels.
type RandomSource interface {
	Pick(choices []int) int
}

// RandomFunc adapts a function to RandomSource.
type RandomFunc func(choices []int) int

func (f RandomFunc) Pick(choices []int) int { return f(choices) }

type rngSource struct {
	rng *rand.Rand
}

// NewSeededRandom returns a deterministic RandomSource for the given seed.
func NewSeededRandom(seed uint64) RandomSource {
	return &rngSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom returns a RandomSource backed by the runtime's global generator.
func NewRandom() RandomSource {
	return RandomFunc(func(choices []int) int {
		return choices[rand.IntN(len(choices))]
	})
}

func (s *rngSource) Pick(choices []int) int {
	return choices[s.rng.IntN(len(choices))]
}
