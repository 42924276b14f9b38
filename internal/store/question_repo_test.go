package store

import (
	"context"
	"testing"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

func seedQuestions(t *testing.T, repo *QuestionRepo) {
	t.Helper()
	_, err := repo.Add(context.Background(),
		bank.Question{Text: "hard physics", Answer: "a", Subject: "Physics", Topic: "Sound", Grade: "9", Difficulty: bank.Difficulty(70)},
		bank.Question{Text: "easy physics", Answer: "a", Subject: "Physics", Topic: "Sound", Grade: "9", Difficulty: bank.Difficulty(20)},
		bank.Question{Text: "mid physics", Answer: "a", Subject: "physics", Topic: "Light", Grade: "10", Difficulty: bank.Difficulty(45)},
		bank.Question{Text: "labelled", Answer: "a", Subject: "Physics", Topic: "Sound", Grade: "9", Level: bank.LevelIntermediate},
		bank.Question{Text: "chemistry", Answer: "a", Subject: "Chemistry", Grade: "9", Difficulty: bank.Difficulty(30)},
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func questionTexts(qs []bank.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuestionRepoAddAssignsIDs(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	ids, err := repo.Add(ctx,
		bank.Question{Text: "one", Answer: "1"},
		bank.Question{ID: "custom", Text: "two", Answer: "2"},
		bank.Question{Text: "three", Answer: "3"},
	)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := []string{"b1", "custom", "b3"}
	if !equalStrings(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	// Re-adding an explicit ID replaces the row.
	if _, err := repo.Add(ctx, bank.Question{ID: "custom", Text: "two again", Answer: "2"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestQuestionRepoRejectsEmptyText(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	_, err := repo.Add(ctx, bank.Question{Text: "ok", Answer: "a"}, bank.Question{Answer: "a"})
	if err == nil {
		t.Fatal("expected error for empty question text")
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0 after rolled-back insert", n)
	}
}

func TestQuestionRepoCandidates(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	seedQuestions(t, repo)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter bank.Filter
		want   []string
	}{
		{
			name:   "whole bank ordered by difficulty",
			filter: bank.Filter{},
			want:   []string{"labelled", "easy physics", "chemistry", "mid physics", "hard physics"},
		},
		{
			name:   "subject is case-insensitive",
			filter: bank.Filter{Subject: "PHYSICS"},
			want:   []string{"labelled", "easy physics", "mid physics", "hard physics"},
		},
		{
			name:   "topic and grade",
			filter: bank.Filter{Topic: "sound", Grade: "9"},
			want:   []string{"labelled", "easy physics", "hard physics"},
		},
		{
			name:   "difficulty range",
			filter: bank.Filter{MinDifficulty: 25, MaxDifficulty: 60},
			want:   []string{"chemistry", "mid physics"},
		},
		{
			name:   "inverted range is swapped",
			filter: bank.Filter{MinDifficulty: 60, MaxDifficulty: 25},
			want:   []string{"chemistry", "mid physics"},
		},
		{
			name:   "limit",
			filter: bank.Filter{Subject: "Physics", Limit: 2},
			want:   []string{"labelled", "easy physics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Candidates(ctx, tt.filter)
			if err != nil {
				t.Fatalf("candidates: %v", err)
			}
			if texts := questionTexts(got); !equalStrings(texts, tt.want) {
				t.Errorf("candidates = %v, want %v", texts, tt.want)
			}
		})
	}
}

func TestQuestionRepoPreservesFields(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	in := bank.Question{
		ID: "q-audio", Text: "Name the echo", Answer: "Reflection", Subject: "Physics",
		Topic: "Sound", Grade: "8", Level: bank.LevelAdvanced, AudioHeavy: true,
	}
	if _, err := repo.Add(ctx, in); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := repo.Candidates(ctx, bank.DefaultFilter())
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	q := got[0]
	if q.Difficulty != nil {
		t.Errorf("difficulty = %v, want nil", *q.Difficulty)
	}
	if q.ID != in.ID || q.Level != in.Level || !q.AudioHeavy || q.Answer != in.Answer || q.Grade != in.Grade {
		t.Errorf("question = %+v, want %+v", q, in)
	}
	if q.EffectiveDifficulty() != 13 {
		t.Errorf("effective difficulty = %v, want 13", q.EffectiveDifficulty())
	}
}

func TestQuestionRepoClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	seedQuestions(t, repo)
	ctx := context.Background()

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}
