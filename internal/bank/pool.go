package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Pool is an in-memory Repository, typically loaded from a JSON file.
type Pool []Question

// Candidates returns the matching questions ordered by effective difficulty
// then ID, mirroring the order of the SQL-backed bank.
func (p Pool) Candidates(_ context.Context, f Filter) ([]Question, error) {
	var out []Question
	for _, q := range p {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDifficulty(), out[j].EffectiveDifficulty()
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Decode reads a JSON array of questions. Entries without an ID get a
// positional one ("q1", "q2", ...).
func Decode(r io.Reader) (Pool, error) {
	var qs []Question
	if err := json.NewDecoder(r).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = fmt.Sprintf("q%d", i+1)
		}
		if qs[i].Text == "" {
			return nil, fmt.Errorf("question %s: empty question text", qs[i].ID)
		}
	}
	return Pool(qs), nil
}

// LoadFile reads a JSON question file from disk.
func LoadFile(path string) (Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
