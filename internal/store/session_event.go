package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, sessionEventsTable.Name,
		[]string{"session_id", "action", "questions_served", "correct_answers", "final_difficulty", "duration_secs"},
		[]any{data.SessionID, data.Action, data.QuestionsServed, data.CorrectAnswers, data.FinalDifficulty, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerEventsTable.Name,
		[]string{
			"session_id", "question_index", "question_id", "score", "correct",
			"difficulty", "question_difficulty", "next_difficulty", "consecutive_wrong",
		},
		[]any{
			data.SessionID, data.QuestionIndex, data.QuestionID, data.Score, data.Correct,
			data.Difficulty, data.QuestionDifficulty, data.NextDifficulty, data.ConsecutiveWrong,
		},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEventRecord, error) {
	preds := queryPredicates(opts)
	if sessionID != "" {
		preds = append(preds, entsql.EQ("session_id", sessionID))
	}

	sel := builder().Select(
		"id", "sequence", "timestamp", "session_id", "question_index", "question_id", "score",
		"correct", "difficulty", "question_difficulty", "next_difficulty", "consecutive_wrong",
	).From(entsql.Table(answerEventsTable.Name))
	sel = where(sel, preds).OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.QuestionIndex,
			&rec.QuestionID, &rec.Score, &rec.Correct, &rec.Difficulty,
			&rec.QuestionDifficulty, &rec.NextDifficulty, &rec.ConsecutiveWrong,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	return out, nil
}
