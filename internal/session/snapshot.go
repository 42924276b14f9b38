package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/GopalOmotec/echolearn-updated/internal/adaptive"
	"github.com/GopalOmotec/echolearn-updated/internal/analytics"
	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// StateSnapshot is the scalar part of the adaptive state.
type StateSnapshot struct {
	CurrentDifficulty int   `json:"current_difficulty"`
	ConsecutiveWrong  int   `json:"consecutive_wrong_same_level"`
	LastAnswerCorrect *bool `json:"last_answer_correct"`
}

// Snapshot is the serializable export of a session, handed to a
// persistence sink for storage and reporting.
type Snapshot struct {
	Version            int                          `json:"version"`
	SessionID          string                       `json:"session_id"`
	StartedAt          time.Time                    `json:"started_at"`
	TakenAt            time.Time                    `json:"taken_at"`
	State              StateSnapshot                `json:"state"`
	PerformanceHistory []adaptive.PerformanceRecord `json:"performance_history"`
	UsedIndices        []int                        `json:"used_indices"`
	CurrentIndex       *int                         `json:"current_index"`
	Finished           bool                         `json:"finished"`
	Analytics          analytics.Summary            `json:"analytics"`
	Trajectory         analytics.Trajectory         `json:"trajectory"`
}

// Snapshot exports the session. It does not modify the session.
func (s *Session) Snapshot() Snapshot {
	st := s.ctrl.State()

	var cur *int
	if s.current >= 0 {
		c := s.current
		cur = &c
	}

	history := st.History
	if history == nil {
		history = []adaptive.PerformanceRecord{}
	}

	return Snapshot{
		Version:   SnapshotVersion,
		SessionID: s.id,
		StartedAt: s.startedAt,
		TakenAt:   s.now(),
		State: StateSnapshot{
			CurrentDifficulty: st.CurrentDifficulty,
			ConsecutiveWrong:  st.ConsecutiveWrong,
			LastAnswerCorrect: st.LastAnswerCorrect,
		},
		PerformanceHistory: history,
		UsedIndices:        s.Used(),
		CurrentIndex:       cur,
		Finished:           s.finished,
		Analytics:          analytics.Summarize(history),
		Trajectory:         analytics.FitTrajectory(history),
	}
}

// Document converts the snapshot into a mapping of named fields.
func (snap Snapshot) Document() (map[string]any, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot document: %w", err)
	}
	return doc, nil
}

// ParseDocument reverses Document.
func ParseDocument(doc map[string]any) (Snapshot, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot document: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion)
	}
	return snap, nil
}

// Restore rebuilds a session from a snapshot over the same pool it was
// taken from.
func Restore(snap Snapshot, pool []bank.Question, opts ...Option) (*Session, error) {
	opts = append([]Option{WithID(snap.SessionID)}, opts...)
	s := New(pool, opts...)
	if err := s.restore(snap); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.SessionID, err)
	}
	return s, nil
}
