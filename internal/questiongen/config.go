package questiongen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects it.
	Validators []Validator

	// PerBand is the number of questions requested for each band.
	PerBand int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many prior questions go into the prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns the standard validator chain and a pool of
// twenty questions, five per band.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&BandValidator{},
			&DedupValidator{},
		},
		PerBand:           5,
		MaxTokens:         4096,
		Temperature:       0.7,
		MaxPriorQuestions: 30,
	}
}
