package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
)

// PutQuestions inserts or replaces questions by id in one transaction.
func (s *Store) PutQuestions(ctx context.Context, questions []game.Question) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
		if q.ID == "" {
			return fmt.Errorf("question id is required")
		}
	}

	now := toMillis(s.now())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO questions (id, level, text, answer1, answer2, answer3, answer4, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    level = excluded.level,
    text = excluded.text,
    answer1 = excluded.answer1,
    answer2 = excluded.answer2,
    answer3 = excluded.answer3,
    answer4 = excluded.answer4`)
		if err != nil {
			return fmt.Errorf("prepare question upsert: %w", err)
		}
		defer stmt.Close()

		for _, q := range questions {
			if _, err := stmt.ExecContext(ctx,
				q.ID, q.Level, q.Text,
				q.Answers[0], q.Answers[1], q.Answers[2], q.Answers[3],
				now,
			); err != nil {
				return fmt.Errorf("put question %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

// QuestionsAtLevel returns every question at level, ordered by id.
func (s *Store) QuestionsAtLevel(ctx context.Context, level int) ([]game.Question, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, level, text, answer1, answer2, answer3, answer4
FROM questions
WHERE level = ?
ORDER BY id`, level)
	if err != nil {
		return nil, fmt.Errorf("list questions at level %d: %w", level, err)
	}
	defer rows.Close()

	var questions []game.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

// CountQuestionsByLevel returns question counts keyed by level. Empty levels are absent.
func (s *Store) CountQuestionsByLevel(ctx context.Context) (map[int]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT level, COUNT(*) FROM questions GROUP BY level`)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	counts := map[int]int{}
	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("scan question count: %w", err)
		}
		counts[level] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (game.Question, error) {
	var q game.Question
	if err := row.Scan(&q.ID, &q.Level, &q.Text, &q.Answers[0], &q.Answers[1], &q.Answers[2], &q.Answers[3]); err != nil {
		return game.Question{}, fmt.Errorf("scan question: %w", err)
	}
	return q, nil
}
