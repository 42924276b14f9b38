package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert examiner preparing an oral (viva) examination.

Rules:
- Ask questions a student can answer aloud in a few sentences. No diagrams, no multiple choice.
- Every question must be answerable from the given material when material is provided.
- Spread questions over four levels on a 1-20 difficulty scale:
  Basic 1-5, Intermediate 6-10, Advanced 11-15, Expert 16-20.
- Give each question a difficulty inside its level's range.
- Answers are short model answers an examiner can grade against.
- Do not repeat any question from the "already asked" list.`

// maxSourceChars caps the material pasted into the prompt.
const maxSourceChars = 12000

func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	if in.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	}
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Grade != "" {
		fmt.Fprintf(&b, "Grade: %s\n", in.Grade)
	}

	fmt.Fprintf(&b, "\nGenerate %d questions with answers:\n", cfg.PerBand*len(Bands))
	for _, band := range Bands {
		fmt.Fprintf(&b, "- %d at difficulty %d-%d (%s)\n", cfg.PerBand, band.Min, band.Max, band.Level)
	}

	if src := strings.TrimSpace(in.Source); src != "" {
		if len(src) > maxSourceChars {
			src = src[:maxSourceChars]
		}
		b.WriteString("\n--- CONTENT START ---\n")
		b.WriteString(src)
		b.WriteString("\n--- CONTENT END ---\n")
	}

	b.WriteString("\nAlready asked:\n")
	b.WriteString(numbered(in.Prior, cfg.MaxPriorQuestions))
	return b.String()
}

// numbered lists the most recent max items, or "None".
func numbered(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
