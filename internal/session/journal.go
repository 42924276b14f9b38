package session

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/GopalOmotec/echolearn-updated/internal/store"
)

// DefaultSnapshotKeep is how many snapshots per session a Journal retains.
const DefaultSnapshotKeep = 5

// EventSink receives session lifecycle and answer events.
type EventSink interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// SnapshotSink stores session snapshots.
type SnapshotSink interface {
	Save(ctx context.Context, snap *store.Snapshot) error
	Prune(ctx context.Context, sessionID string, keep int) error
}

// Journal persists one session's progress: a start event, an answer event
// and snapshot per submission, and an end event.
type Journal struct {
	session   *Session
	events    EventSink
	snapshots SnapshotSink
	keep      int
	logger    *log.Logger
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithSnapshotKeep sets how many snapshots are retained per session.
func WithSnapshotKeep(n int) JournalOption {
	return func(j *Journal) { j.keep = n }
}

// WithJournalLogger sets the logger for persistence progress.
func WithJournalLogger(l *log.Logger) JournalOption {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}

// NewJournal attaches persistence to s. Either sink may be nil to skip that
// kind of record.
func NewJournal(s *Session, events EventSink, snapshots SnapshotSink, opts ...JournalOption) *Journal {
	j := &Journal{
		session:   s,
		events:    events,
		snapshots: snapshots,
		keep:      DefaultSnapshotKeep,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Session returns the journaled session.
func (j *Journal) Session() *Session { return j.session }

// Begin starts the session and records the start event.
func (j *Journal) Begin(ctx context.Context) (int, bool, error) {
	idx, ok := j.session.Start()
	if j.events != nil {
		err := j.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID: j.session.ID(),
			Action:    store.ActionStart,
		})
		if err != nil {
			return idx, ok, fmt.Errorf("record session start: %w", err)
		}
	}
	j.logger.Printf("[Journal] session %s started, first question %d", j.session.ID(), idx)
	return idx, ok, nil
}

// Submit scores the active question and persists the attempt.
func (j *Journal) Submit(ctx context.Context, score int) (Outcome, error) {
	q, _, _ := j.session.Current()
	difficulty := j.session.State().CurrentDifficulty

	out, err := j.session.Submit(score)
	if err != nil {
		return out, err
	}
	if err := j.Record(ctx, q.ID, difficulty, out); err != nil {
		return out, err
	}
	return out, nil
}

// Record persists an outcome already applied to the session. difficulty is
// the target that was in force when the question was answered.
func (j *Journal) Record(ctx context.Context, questionID string, difficulty int, out Outcome) error {
	if j.events != nil {
		err := j.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:          j.session.ID(),
			QuestionIndex:      out.Answered,
			QuestionID:         questionID,
			Score:              out.Score,
			Correct:            out.Recommendation.LastCorrect != nil && *out.Recommendation.LastCorrect,
			Difficulty:         difficulty,
			QuestionDifficulty: j.session.Pool()[out.Answered].EffectiveDifficulty(),
			NextDifficulty:     out.Recommendation.TargetDifficulty,
			ConsecutiveWrong:   out.Recommendation.ConsecutiveWrong,
		})
		if err != nil {
			return fmt.Errorf("record answer: %w", err)
		}
	}
	j.logger.Printf("[Journal] session %s: question %d scored %d, next target %d",
		j.session.ID(), out.Answered, out.Score, out.Recommendation.TargetDifficulty)
	return j.Checkpoint(ctx)
}

// Checkpoint saves a snapshot of the session and prunes older ones.
func (j *Journal) Checkpoint(ctx context.Context) error {
	if j.snapshots == nil {
		return nil
	}
	snap := j.session.Snapshot()
	doc, err := snap.Document()
	if err != nil {
		return err
	}
	err = j.snapshots.Save(ctx, &store.Snapshot{
		SessionID: snap.SessionID,
		Timestamp: snap.TakenAt,
		Data:      doc,
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if j.keep > 0 {
		if err := j.snapshots.Prune(ctx, snap.SessionID, j.keep); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}
	return nil
}

// End records the end event with the session totals.
func (j *Journal) End(ctx context.Context) error {
	st := j.session.State()
	correct := 0
	for _, r := range st.History {
		if r.Correct {
			correct++
		}
	}
	if j.events != nil {
		err := j.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:       j.session.ID(),
			Action:          store.ActionEnd,
			QuestionsServed: len(st.History),
			CorrectAnswers:  correct,
			FinalDifficulty: st.CurrentDifficulty,
			DurationSecs:    int(j.session.now().Sub(j.session.StartedAt()).Seconds()),
		})
		if err != nil {
			return fmt.Errorf("record session end: %w", err)
		}
	}
	j.logger.Printf("[Journal] session %s ended: %d/%d correct", j.session.ID(), correct, len(st.History))
	return nil
}
