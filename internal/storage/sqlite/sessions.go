package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

func (s *sqliteStorage) CreateSession(
	ctx context.Context,
	userID int64,
	sessionID string,
	expiresAt time.Time,
) (storage.Session, error) {
	createdAt := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, userID, expiresAt.Unix(), createdAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return storage.NewSession(sessionID, userID, expiresAt, createdAt), nil
}

// GetSession only returns sessions that have not expired yet.
func (s *sqliteStorage) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, sessionID, time.Now().Unix())

	var id string
	var userID int64
	var expiresAt int64
	var createdAt int64

	if err := row.Scan(&id, &userID, &expiresAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return storage.NewSession(id, userID, time.Unix(expiresAt, 0), time.Unix(createdAt, 0)), nil
}

func (s *sqliteStorage) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *sqliteStorage) DeleteExpiredSessions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return nil
}
