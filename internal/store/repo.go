package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Snapshot is a stored point-in-time export of one session. Data holds the
// session document as a mapping of named fields.
type Snapshot struct {
	ID        int
	SessionID string
	Sequence  int64
	Timestamp time.Time
	Data      map[string]any
}

// SnapshotRepo manages session snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// global counter.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for sessionID, or of any
	// session when sessionID is empty. Returns nil if none exist.
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots of sessionID.
	Prune(ctx context.Context, sessionID string, keep int) error

	// DeleteSession removes every snapshot of sessionID, or all snapshots
	// when sessionID is empty. Returns the number of rows removed.
	DeleteSession(ctx context.Context, sessionID string) (int64, error)
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
	ActionReset = "reset"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID       string
	Action          string
	QuestionsServed int
	CorrectAnswers  int
	FinalDifficulty int
	DurationSecs    int
}

// AnswerEventData captures one scored attempt and the difficulty decision
// that followed it.
type AnswerEventData struct {
	SessionID          string
	QuestionIndex      int
	QuestionID         string
	Score              int
	Correct            bool
	Difficulty         int
	QuestionDifficulty float64
	NextDifficulty     int
	ConsecutiveWrong   int
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CostUSD      float64
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session start, end or reset.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records one scored attempt.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryAnswerEvents returns answer events of sessionID ("" for all) in
	// sequence order.
	QueryAnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM request event, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates LLM events per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM events per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// LLMUsage is an aggregate over LLM request events sharing a key.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	CostUSD      float64
}
