package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

func (s *sqliteStorage) CreateUser(ctx context.Context, username, passwordHash string) (storage.User, error) {
	// Every user owns exactly one profile, so both rows are created together
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Will be no-op if committed
	}()

	createdAt := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, createdAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO user_profiles (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return storage.NewUser(userID, username, passwordHash, createdAt), nil
}

func (s *sqliteStorage) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username)

	return userFromRow(row)
}

func (s *sqliteStorage) GetUserByID(ctx context.Context, id int64) (storage.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id)

	return userFromRow(row)
}

func userFromRow(row *sql.Row) (storage.User, error) {
	var id int64
	var username string
	var passwordHash string
	var createdAt int64

	err := row.Scan(&id, &username, &passwordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return storage.NewUser(id, username, passwordHash, time.Unix(createdAt, 0)), nil
}

func (s *sqliteStorage) UpdateUsername(ctx context.Context, userID int64, newUsername string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = ?
		WHERE id = ?
	`, newUsername, userID)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}

	return expectAffected(result)
}

func (s *sqliteStorage) UpdatePassword(ctx context.Context, userID int64, newPasswordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?
		WHERE id = ?
	`, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return expectAffected(result)
}

// expectAffected turns an update that touched no rows into a NotFoundError.
func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &storage.NotFoundError{}
	}

	return nil
}
