package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/GopalOmotec/echolearn-updated/internal/bank"
)

// QuestionRepo is the persistent question bank. It implements
// bank.Repository.
type QuestionRepo struct {
	db *sql.DB
}

var _ bank.Repository = (*QuestionRepo)(nil)

// Add inserts questions in one transaction. Questions without an ID are
// assigned "b<rowid>"; an existing ID is replaced.
func (r *QuestionRepo) Add(ctx context.Context, qs ...bank.Question) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin question insert: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		id, err := insertQuestion(ctx, tx, q)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit question insert: %w", err)
	}
	return ids, nil
}

func insertQuestion(ctx context.Context, tx *sql.Tx, q bank.Question) (string, error) {
	if q.Text == "" {
		return "", fmt.Errorf("insert question %q: empty question text", q.ID)
	}

	id := q.ID
	if id == "" {
		// Placeholder until the row id is known.
		id = "pending"
	} else {
		del, args := builder().Delete(questionsTable.Name).Where(entsql.EQ("question_id", id)).Query()
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return "", fmt.Errorf("replace question %s: %w", id, err)
		}
	}

	var difficulty any
	if q.Difficulty != nil {
		difficulty = *q.Difficulty
	}

	ins, args := builder().Insert(questionsTable.Name).
		Columns("question_id", "subject", "topic", "grade", "question_text", "answer_text",
			"difficulty", "level", "audio_heavy", "created_at").
		Values(id, q.Subject, q.Topic, q.Grade, q.Text, q.Answer,
			difficulty, string(q.Level), q.AudioHeavy, timeNow().UTC()).
		Query()
	res, err := tx.ExecContext(ctx, ins, args...)
	if err != nil {
		return "", fmt.Errorf("insert question: %w", err)
	}

	if q.ID == "" {
		rowID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("insert question: %w", err)
		}
		id = "b" + strconv.FormatInt(rowID, 10)
		upd, args := builder().Update(questionsTable.Name).
			Set("question_id", id).
			Where(entsql.EQ("id", rowID)).
			Query()
		if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
			return "", fmt.Errorf("assign question id: %w", err)
		}
	}
	return id, nil
}

// Candidates returns questions matching f ordered by effective difficulty,
// then insertion order. Rows without a numeric difficulty are matched on
// their level.
func (r *QuestionRepo) Candidates(ctx context.Context, f bank.Filter) ([]bank.Question, error) {
	f = f.Normalize()

	preds := []*entsql.Predicate{
		entsql.Or(
			entsql.And(
				entsql.GTE("difficulty", f.MinDifficulty),
				entsql.LTE("difficulty", f.MaxDifficulty),
			),
			entsql.IsNull("difficulty"),
		),
	}
	if f.Subject != "" {
		preds = append(preds, entsql.EqualFold("subject", f.Subject))
	}
	if f.Topic != "" {
		preds = append(preds, entsql.EqualFold("topic", f.Topic))
	}
	if f.Grade != "" {
		preds = append(preds, entsql.EQ("grade", f.Grade))
	}

	sel := builder().Select(
		"id", "question_id", "subject", "topic", "grade", "question_text", "answer_text",
		"difficulty", "level", "audio_heavy",
	).From(entsql.Table(questionsTable.Name))
	sel = where(sel, preds).OrderBy("difficulty", "id")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	type row struct {
		rowID int
		q     bank.Question
	}
	var found []row
	for rows.Next() {
		var (
			rr         row
			difficulty sql.NullFloat64
			level      string
		)
		if err := rows.Scan(&rr.rowID, &rr.q.ID, &rr.q.Subject, &rr.q.Topic, &rr.q.Grade,
			&rr.q.Text, &rr.q.Answer, &difficulty, &level, &rr.q.AudioHeavy); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if difficulty.Valid {
			rr.q.Difficulty = bank.Difficulty(difficulty.Float64)
		}
		rr.q.Level = bank.Level(level)
		if !f.Match(rr.q) {
			continue
		}
		found = append(found, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	// Level-only rows sort among the numeric ones by their mapped difficulty.
	sort.SliceStable(found, func(i, j int) bool {
		di, dj := found[i].q.EffectiveDifficulty(), found[j].q.EffectiveDifficulty()
		if di != dj {
			return di < dj
		}
		return found[i].rowID < found[j].rowID
	})

	if f.Limit > 0 && len(found) > f.Limit {
		found = found[:f.Limit]
	}
	out := make([]bank.Question, len(found))
	for i, rr := range found {
		out[i] = rr.q
	}
	return out, nil
}

// Count returns the number of stored questions.
func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	query, args := builder().Select(entsql.Count("*")).From(entsql.Table(questionsTable.Name)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// Clear deletes every stored question.
func (r *QuestionRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(questionsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	return nil
}
