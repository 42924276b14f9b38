package questiongen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
	"github.com/GopalOmotec/echolearn-updated/internal/llm"
)

// ErrEmptyPool is returned when no generated question survives validation.
var ErrEmptyPool = errors.New("no valid questions generated")

// Input is the context for one generation request.
type Input struct {
	Topic   string
	Subject string
	Grade   string

	// Source is optional study material the questions must be drawn from.
	Source string

	// Prior lists question texts that must not be repeated.
	Prior []string
}

// Rejection records a generated question that failed validation.
type Rejection struct {
	Text   string
	Reason *ValidationError
}

// Result is a generated pool plus the questions that were dropped.
type Result struct {
	Questions bank.Pool
	Rejected  []Rejection
	Usage     llm.Usage
}

// Generator builds question pools with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	if cfg.PerBand <= 0 {
		cfg.PerBand = DefaultConfig().PerBand
	}
	return &Generator{provider: provider, config: cfg}
}

// Generate asks the model for a full pool. Invalid questions are dropped
// and reported in Result.Rejected; an error is returned only when the
// call fails or nothing survives.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, errors.New("topic is required")
	}
	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)}},
		Schema:      PoolSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw poolOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	seen := make(map[string]bool, len(in.Prior)+len(raw.Questions))
	for _, p := range in.Prior {
		seen[normalize(p)] = true
	}

	res := &Result{Usage: resp.Usage}
	for _, out := range raw.Questions {
		q, band, verr := g.toQuestion(out, in)
		if verr == nil {
			verr = g.validate(q, band, seen)
		}
		if verr != nil {
			res.Rejected = append(res.Rejected, Rejection{Text: out.Question, Reason: verr})
			continue
		}
		seen[normalize(q.Text)] = true
		q.ID = fmt.Sprintf("q%d", len(res.Questions)+1)
		res.Questions = append(res.Questions, q)
	}

	if len(res.Questions) == 0 {
		return res, ErrEmptyPool
	}
	return res, nil
}

// toQuestion resolves the band and difficulty of a raw item. A tag in the
// text wins over the difficulty field; neither falls back to the midpoint.
func (g *Generator) toQuestion(out questionOutput, in Input) (bank.Question, Band, *ValidationError) {
	band, ok := BandFor(bank.Level(out.Level))
	if !ok {
		return bank.Question{}, Band{}, &ValidationError{
			Validator: "band",
			Message:   fmt.Sprintf("unknown level %q", out.Level),
		}
	}

	text, tagged := splitTag(out.Question)
	d := out.Difficulty
	if tagged > 0 {
		d = tagged
	}
	if d <= 0 {
		d = band.Midpoint()
	}

	return bank.Question{
		Text:       text,
		Answer:     strings.TrimSpace(out.Answer),
		Level:      band.Level,
		Difficulty: bank.Difficulty(float64(d)),
		Subject:    in.Subject,
		Topic:      in.Topic,
		Grade:      in.Grade,
	}, band, nil
}

func (g *Generator) validate(q bank.Question, band Band, seen map[string]bool) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, band, seen); verr != nil {
			return verr
		}
	}
	return nil
}
