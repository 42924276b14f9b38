package questiongen

import (
	"fmt"
	"strings"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// Validator checks one generated question.
type Validator interface {
	// Name is a short identifier used in rejection reports.
	Name() string

	// Validate returns nil if q may join the pool. seen holds the
	// normalized text of prior and already accepted questions.
	Validate(q bank.Question, band Band, seen map[string]bool) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// maxTextLen bounds question and answer length.
const maxTextLen = 600

// StructuralValidator requires non-empty, bounded question and answer text.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q bank.Question, _ Band, _ map[string]bool) *ValidationError {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	case strings.TrimSpace(q.Answer) == "":
		return &ValidationError{Validator: v.Name(), Message: "answer is empty"}
	case len(q.Text) > maxTextLen:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question exceeds %d characters", maxTextLen)}
	case len(q.Answer) > maxTextLen:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("answer exceeds %d characters", maxTextLen)}
	}
	return nil
}

// BandValidator requires the difficulty to lie inside the question's band.
type BandValidator struct{}

func (v *BandValidator) Name() string { return "band" }

func (v *BandValidator) Validate(q bank.Question, band Band, _ map[string]bool) *ValidationError {
	d := int(q.EffectiveDifficulty())
	if !band.Contains(d) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difficulty %d outside %s range %d-%d", d, band.Level, band.Min, band.Max),
		}
	}
	return nil
}

// DedupValidator rejects questions whose text repeats an earlier one,
// ignoring case, punctuation and spacing.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(q bank.Question, _ Band, seen map[string]bool) *ValidationError {
	if seen[normalize(q.Text)] {
		return &ValidationError{Validator: v.Name(), Message: "duplicate question"}
	}
	return nil
}

// normalize lowercases s and keeps only letters, digits and single spaces.
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}
