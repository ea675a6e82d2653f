package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/millionaire/internal/services/game/storage"
	"github.com/louisbranch/millionaire/internal/services/game/storage/cursor"
)

// EnsureAccount creates the account if it does not exist yet. A non-empty
// name replaces the stored display name.
func (s *Store) EnsureAccount(ctx context.Context, id, name string) (storage.Account, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Account{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Account{}, fmt.Errorf("account id is required")
	}
	name = strings.TrimSpace(name)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return ensureAccountTx(ctx, tx, id, name, toMillis(s.now()))
	})
	if err != nil {
		return storage.Account{}, err
	}
	return s.GetAccount(ctx, id)
}

// GetAccount loads one account.
func (s *Store) GetAccount(ctx context.Context, id string) (storage.Account, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Account{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, balance, created_at, updated_at FROM users WHERE id = ?`, strings.TrimSpace(id))
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Account{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Account{}, err
	}
	return account, nil
}

// ListLeaderboard pages accounts by balance descending, ties broken by id.
func (s *Store) ListLeaderboard(ctx context.Context, pageSize int, pageToken string) (storage.AccountPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.AccountPage{}, err
	}
	pageSize = normalizePageSize(pageSize)

	query := `SELECT id, name, balance, created_at, updated_at FROM users`
	var args []any
	if strings.TrimSpace(pageToken) != "" {
		c, err := decodePageToken(pageToken, "")
		if err != nil {
			return storage.AccountPage{}, err
		}
		query += ` WHERE (balance < ? OR (balance = ? AND id > ?))`
		args = append(args, c.Key, c.Key, c.ID)
	}
	query += ` ORDER BY balance DESC, id ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.AccountPage{}, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var page storage.AccountPage
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return storage.AccountPage{}, err
		}
		page.Accounts = append(page.Accounts, account)
	}
	if err := rows.Err(); err != nil {
		return storage.AccountPage{}, fmt.Errorf("iterate leaderboard: %w", err)
	}

	if len(page.Accounts) > pageSize {
		page.Accounts = page.Accounts[:pageSize]
		last := page.Accounts[len(page.Accounts)-1]
		token, err := cursor.Encode(cursor.New(last.Balance, last.ID, ""))
		if err != nil {
			return storage.AccountPage{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

func ensureAccountTx(ctx context.Context, tx *sql.Tx, id, name string, now int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, name, balance, created_at, updated_at)
VALUES (?, ?, 0, ?, ?)
ON CONFLICT(id) DO NOTHING`, id, name, now, now); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if name == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE users SET name = ?, updated_at = ? WHERE id = ? AND name != ?`, name, now, id, name); err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	return nil
}

func creditAccountTx(ctx context.Context, tx *sql.Tx, id string, amount int64, now int64) error {
	result, err := tx.ExecContext(ctx, `
UPDATE users SET balance = balance + ?, updated_at = ? WHERE id = ?`, amount, now, id)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit account rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (storage.Account, error) {
	var (
		account   storage.Account
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&account.ID, &account.Name, &account.Balance, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Account{}, err
		}
		return storage.Account{}, fmt.Errorf("scan account: %w", err)
	}
	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)
	return account, nil
}
