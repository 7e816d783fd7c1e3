package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deiondz/udal-gp/internal/models"
)

const sessionColumns = "id, token, user_id, expires_at, created_at, ip_address, user_agent, impersonated_by"

// SessionRepository provides database access for login sessions. All session
// rows pass through the single scan routine here, so callers always see one
// normalized record shape.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a session entry.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO sessions (id, token, user_id, expires_at, created_at, ip_address, user_agent, impersonated_by) VALUES (:id, :token, :user_id, :expires_at, :created_at, :ip_address, :user_agent, :impersonated_by)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByToken returns a session by its opaque token.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE token = $1 LIMIT 1`, sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session by token: %w", err)
	}
	return &session, nil
}

// ListByUser returns all sessions belonging to a user, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}
	return sessions, nil
}

// DeleteByToken removes a single session and reports whether one existed.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	const query = `DELETE FROM sessions WHERE token = $1`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteByUser removes every session belonging to a user.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete sessions by user: %w", err)
	}
	return nil
}
