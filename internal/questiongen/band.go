// Package questiongen asks a language model for viva question pools that
// span the full 1-20 difficulty scale used by the adaptive controller.
package questiongen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// Band is a contiguous difficulty range with its level label.
type Band struct {
	Level bank.Level
	Min   int
	Max   int
}

// Bands partitions 1-20 into four equal levels.
var Bands = []Band{
	{Level: bank.LevelBasic, Min: 1, Max: 5},
	{Level: bank.LevelIntermediate, Min: 6, Max: 10},
	{Level: bank.LevelAdvanced, Min: 11, Max: 15},
	{Level: bank.LevelExpert, Min: 16, Max: 20},
}

// Midpoint is the difficulty assigned when the model gives none.
func (b Band) Midpoint() int { return (b.Min + b.Max) / 2 }

// Contains reports whether d lies in the band.
func (b Band) Contains(d int) bool { return d >= b.Min && d <= b.Max }

// BandFor returns the band labelled l, matched case-insensitively.
func BandFor(l bank.Level) (Band, bool) {
	for _, b := range Bands {
		if strings.EqualFold(string(b.Level), strings.TrimSpace(string(l))) {
			return b, true
		}
	}
	return Band{}, false
}

var difficultyTag = regexp.MustCompile(`\[Difficulty:\s*(\d+)\]`)

// splitTag strips a "[Difficulty: N]" tag from text. It returns N, or 0
// when there is no tag.
func splitTag(text string) (string, int) {
	m := difficultyTag.FindStringSubmatchIndex(text)
	if m == nil {
		return strings.TrimSpace(text), 0
	}
	n, _ := strconv.Atoi(text[m[2]:m[3]])
	stripped := text[:m[0]] + text[m[1]:]
	return strings.Join(strings.Fields(stripped), " "), n
}
