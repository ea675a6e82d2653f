package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/services/game/core/filter"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"github.com/louisbranch/millionaire/internal/services/game/storage"
	"github.com/louisbranch/millionaire/internal/services/game/storage/cursor"
	sqlite3lib "modernc.org/sqlite/lib"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const gameColumns = `id, user_id, current_level, is_failed, prize,
    fifty_fifty_used, audience_help_used, friend_call_used,
    created_at, finished_at`

// CreateGame persists g with its fifteen questions. The owner account is
// created on demand.
func (s *Store) CreateGame(ctx context.Context, g game.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if err := g.Validate(); err != nil {
		return err
	}

	now := toMillis(s.now())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureAccountTx(ctx, tx, g.UserID, "", now); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
INSERT INTO games (
    id, user_id, current_level, is_failed, prize,
    fifty_fifty_used, audience_help_used, friend_call_used,
    created_at, finished_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.UserID, g.CurrentLevel, boolToInt(g.IsFailed), g.Prize,
			boolToInt(g.FiftyFiftyUsed), boolToInt(g.AudienceHelpUsed), boolToInt(g.FriendCallUsed),
			toMillis(g.CreatedAt), toNullMillis(g.FinishedAt), now,
		)
		if err != nil {
			if isUniqueViolation(err) && uniqueViolationCode(err) == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE {
				return storage.ErrActiveGameExists
			}
			return fmt.Errorf("insert game: %w", err)
		}

		for _, gq := range g.Questions {
			helpJSON, err := encodeHelp(gq.Reveals)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO game_questions (game_id, level, question_id, slot_a, slot_b, slot_c, slot_d, help_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				g.ID, gq.Level(), gq.Question.ID,
				gq.Slots[0], gq.Slots[1], gq.Slots[2], gq.Slots[3],
				helpJSON,
			); err != nil {
				return fmt.Errorf("insert game question %d: %w", gq.Level(), err)
			}
		}
		return nil
	})
}

// GetGame loads a game with all of its questions.
func (s *Store) GetGame(ctx context.Context, id string) (game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return game.Game{}, err
	}
	return loadGame(ctx, s.sqlDB, strings.TrimSpace(id))
}

// GetActiveGame loads the unfinished game of userID.
func (s *Store) GetActiveGame(ctx context.Context, userID string) (game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return game.Game{}, err
	}

	var id string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id FROM games WHERE user_id = ? AND finished_at IS NULL`,
		strings.TrimSpace(userID),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, storage.ErrNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("find active game: %w", err)
	}
	return loadGame(ctx, s.sqlDB, id)
}

// ListGames pages games newest first.
func (s *Store) ListGames(ctx context.Context, query storage.GameQuery) (storage.GamePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.GamePage{}, err
	}
	pageSize := normalizePageSize(query.PageSize)

	cond, err := filter.ParseGameFilter(query.Filter)
	if err != nil {
		return storage.GamePage{}, apperrors.Wrap(apperrors.CodeInvalidFilter, err.Error(), err)
	}

	var (
		clauses []string
		args    []any
	)
	if userID := strings.TrimSpace(query.UserID); userID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, userID)
	}
	if !cond.Empty() {
		clauses = append(clauses, cond.Clause)
		args = append(args, cond.Params...)
	}

	scope := pageScope(query)
	if strings.TrimSpace(query.PageToken) != "" {
		c, err := decodePageToken(query.PageToken, scope)
		if err != nil {
			return storage.GamePage{}, err
		}
		clauses = append(clauses, "(created_at < ? OR (created_at = ? AND id > ?))")
		args = append(args, c.Key, c.Key, c.ID)
	}

	sqlQuery := "SELECT " + gameColumns + " FROM games"
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlQuery += " ORDER BY created_at DESC, id ASC LIMIT ?"
	args = append(args, pageSize+1)

	games, err := scanGames(ctx, s.sqlDB, sqlQuery, args...)
	if err != nil {
		return storage.GamePage{}, err
	}

	var page storage.GamePage
	if len(games) > pageSize {
		games = games[:pageSize]
		last := games[len(games)-1]
		token, err := cursor.Encode(cursor.New(toMillis(last.CreatedAt), last.ID, scope))
		if err != nil {
			return storage.GamePage{}, err
		}
		page.NextPageToken = token
	}

	for i := range games {
		if err := loadGameQuestions(ctx, s.sqlDB, &games[i]); err != nil {
			return storage.GamePage{}, err
		}
	}
	page.Games = games
	return page, nil
}

// UpdateGame applies mutate to the stored game in one IMMEDIATE transaction.
//
// A finished game is never rewritten. When the mutation moves the game from
// open to won or banked, the owner's balance is credited in the same
// transaction.
func (s *Store) UpdateGame(ctx context.Context, id string, mutate storage.GameMutation) (game.Game, error) {
	if err := s.ready(ctx); err != nil {
		return game.Game{}, err
	}
	if mutate == nil {
		return game.Game{}, fmt.Errorf("game mutation is required")
	}

	var updated game.Game
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		g, err := loadGame(ctx, tx, strings.TrimSpace(id))
		if err != nil {
			return err
		}
		wasFinished := g.Finished()
		before := make([]string, len(g.Questions))
		for i, gq := range g.Questions {
			if before[i], err = encodeHelp(gq.Reveals); err != nil {
				return err
			}
		}

		if err := mutate(&g); err != nil {
			return err
		}
		updated = g
		if wasFinished {
			return nil
		}
		if err := g.Validate(); err != nil {
			return err
		}

		now := toMillis(s.now())
		result, err := tx.ExecContext(ctx, `
UPDATE games SET
    current_level = ?,
    is_failed = ?,
    prize = ?,
    fifty_fifty_used = ?,
    audience_help_used = ?,
    friend_call_used = ?,
    finished_at = ?,
    updated_at = ?
WHERE id = ? AND finished_at IS NULL`,
			g.CurrentLevel, boolToInt(g.IsFailed), g.Prize,
			boolToInt(g.FiftyFiftyUsed), boolToInt(g.AudienceHelpUsed), boolToInt(g.FriendCallUsed),
			toNullMillis(g.FinishedAt), now, g.ID,
		)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update game rows affected: %w", err)
		}
		if affected == 0 {
			return game.ErrGameFinished
		}

		for i, gq := range g.Questions {
			after, err := encodeHelp(gq.Reveals)
			if err != nil {
				return err
			}
			if after == before[i] {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE game_questions SET help_json = ? WHERE game_id = ? AND level = ?`,
				after, g.ID, gq.Level(),
			); err != nil {
				return fmt.Errorf("update game question %d: %w", gq.Level(), err)
			}
		}

		if g.Finished() && !g.IsFailed && g.Prize > 0 {
			if err := creditAccountTx(ctx, tx, g.UserID, g.Prize, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}
	return updated, nil
}

func loadGame(ctx context.Context, q querier, id string) (game.Game, error) {
	g, err := scanGame(q.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return game.Game{}, storage.ErrNotFound
	}
	if err != nil {
		return game.Game{}, err
	}
	if err := loadGameQuestions(ctx, q, &g); err != nil {
		return game.Game{}, err
	}
	return g, nil
}

func loadGameQuestions(ctx context.Context, q querier, g *game.Game) error {
	rows, err := q.QueryContext(ctx, `
SELECT q.id, q.level, q.text, q.answer1, q.answer2, q.answer3, q.answer4,
    gq.slot_a, gq.slot_b, gq.slot_c, gq.slot_d, gq.help_json
FROM game_questions gq
JOIN questions q ON q.id = gq.question_id
WHERE gq.game_id = ?
ORDER BY gq.level`, g.ID)
	if err != nil {
		return fmt.Errorf("load game questions: %w", err)
	}
	defer rows.Close()

	questions := make([]game.GameQuestion, 0, game.Levels)
	for rows.Next() {
		var (
			question game.Question
			slots    [4]int
			helpJSON string
		)
		if err := rows.Scan(
			&question.ID, &question.Level, &question.Text,
			&question.Answers[0], &question.Answers[1], &question.Answers[2], &question.Answers[3],
			&slots[0], &slots[1], &slots[2], &slots[3], &helpJSON,
		); err != nil {
			return fmt.Errorf("scan game question: %w", err)
		}
		reveals, err := decodeHelp(helpJSON)
		if err != nil {
			return fmt.Errorf("game %s level %d: %w", g.ID, question.Level, err)
		}
		gq, err := game.RestoreGameQuestion(question, slots, reveals)
		if err != nil {
			return fmt.Errorf("game %s level %d: %w", g.ID, question.Level, err)
		}
		questions = append(questions, gq)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate game questions: %w", err)
	}

	g.Questions = questions
	return g.Validate()
}

func scanGames(ctx context.Context, q querier, query string, args ...any) ([]game.Game, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

func scanGame(row rowScanner) (game.Game, error) {
	var (
		g                                      game.Game
		isFailed, fiftyFifty, audience, friend int
		createdAt                              int64
		finishedAt                             sql.NullInt64
	)
	if err := row.Scan(
		&g.ID, &g.UserID, &g.CurrentLevel, &isFailed, &g.Prize,
		&fiftyFifty, &audience, &friend,
		&createdAt, &finishedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.Game{}, err
		}
		return game.Game{}, fmt.Errorf("scan game: %w", err)
	}
	g.IsFailed = isFailed != 0
	g.FiftyFiftyUsed = fiftyFifty != 0
	g.AudienceHelpUsed = audience != 0
	g.FriendCallUsed = friend != 0
	g.CreatedAt = fromMillis(createdAt)
	g.FinishedAt = fromNullMillis(finishedAt)
	return g, nil
}

func pageScope(query storage.GameQuery) string {
	return strings.TrimSpace(query.UserID) + "|" + strings.TrimSpace(query.Filter)
}

func decodePageToken(token, scope string) (cursor.Cursor, error) {
	c, err := cursor.Decode(token)
	if err == nil {
		err = cursor.ValidateFilterHash(c, scope)
	}
	if err != nil {
		return cursor.Cursor{}, apperrors.Wrap(apperrors.CodeInvalidPageToken, err.Error(), err)
	}
	return c, nil
}
