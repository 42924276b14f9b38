package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"questions", "session_events", "answer_events", "llm_request_events", "snapshots", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.QuestionRepo().Add(ctx, bank.Question{ID: "q1", Text: "What is sound?", Answer: "A wave"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	n, err := s.QuestionRepo().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count after reopen = %d, want 1", n)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		SessionID: "s1",
		Sequence:  42,
		Timestamp: now,
		Data:      map[string]any{"version": 1, "session_id": "s1"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if v, _ := snap.Data["version"].(float64); v != 1 {
		t.Errorf("data.version = %v, want 1", snap.Data["version"])
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", snap.Timestamp, now)
	}
}

func TestSnapshotSaveAssignsSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	first := &Snapshot{SessionID: "s1", Data: map[string]any{}}
	second := &Snapshot{SessionID: "s1", Data: map[string]any{}}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Sequence == 0 || second.Sequence <= first.Sequence {
		t.Errorf("sequences = %d, %d, want increasing and non-zero", first.Sequence, second.Sequence)
	}
	if second.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
}

func TestSnapshotLatestPerSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i, id := range []string{"a", "b", "a", "b", "a"} {
		err := repo.Save(ctx, &Snapshot{
			SessionID: id,
			Sequence:  int64(i + 1),
			Data:      map[string]any{"n": i},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	tests := []struct {
		session string
		want    int64
	}{
		{"a", 5},
		{"b", 4},
		{"", 5},
	}
	for _, tt := range tests {
		snap, err := repo.Latest(ctx, tt.session)
		if err != nil {
			t.Fatalf("latest %q: %v", tt.session, err)
		}
		if snap == nil || snap.Sequence != tt.want {
			t.Errorf("latest %q = %+v, want sequence %d", tt.session, snap, tt.want)
		}
	}

	snap, err := repo.Latest(ctx, "missing")
	if err != nil {
		t.Fatalf("latest missing: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil for unknown session, got %+v", snap)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			SessionID: "s1",
			Sequence:  int64(i + 1),
			Data:      map[string]any{},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, &Snapshot{SessionID: "other", Sequence: 1, Data: map[string]any{}}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if count := countRows(t, s, "snapshots"); count != 6 {
		t.Errorf("remaining snapshots = %d, want 6", count)
	}

	snap, err := repo.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", snap.Sequence)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := repo.Save(ctx, &Snapshot{SessionID: "s1", Sequence: int64(i + 1), Data: map[string]any{}})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	// Prune with keep=5 should be a no-op.
	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if count := countRows(t, s, "snapshots"); count != 2 {
		t.Errorf("remaining snapshots = %d, want 2", count)
	}
}

func TestSnapshotDeleteSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "a", "b"} {
		if err := repo.Save(ctx, &Snapshot{SessionID: id, Data: map[string]any{}}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := repo.DeleteSession(ctx, "a")
	if err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}

	n, err = repo.DeleteSession(ctx, "")
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if count := countRows(t, s, "snapshots"); count != 0 {
		t.Errorf("remaining snapshots = %d, want 0", count)
	}
}
