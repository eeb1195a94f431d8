package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"venture-desk/internal/domain"
)

// PlanRepository define la persistencia de sesiones de feedback y sus mensajes.
type PlanRepository interface {
	CreateSession(ctx context.Context, session domain.PlanSession) error
	GetSession(ctx context.Context, userID, sessionID string) (domain.PlanSession, error)
	LatestSessionID(ctx context.Context, userID string) (string, error)
	AppendMessage(ctx context.Context, message domain.PlanMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]domain.PlanMessage, error)
}

// PgPlanRepository implementa PlanRepository usando pgxpool.
type PgPlanRepository struct {
	pool *pgxpool.Pool
}

func NewPgPlanRepository(pool *pgxpool.Pool) *PgPlanRepository {
	return &PgPlanRepository{pool: pool}
}

func (r *PgPlanRepository) CreateSession(ctx context.Context, session domain.PlanSession) error {
	const query = `
		INSERT INTO plan_sessions (id, user_id, venture_name, location, mission, what, optional, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	optional, err := json.Marshal(session.Optional)
	if err != nil {
		return fmt.Errorf("marshal optional fields: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.VentureName,
		session.Location,
		session.Mission,
		session.What,
		optional,
		session.CreatedAt,
	)
	return err
}

func (r *PgPlanRepository) GetSession(ctx context.Context, userID, sessionID string) (domain.PlanSession, error) {
	const query = `
		SELECT id, user_id, venture_name, location, mission, what, optional, created_at
		FROM plan_sessions
		WHERE id = $1 AND user_id = $2
	`
	var (
		s   domain.PlanSession
		raw []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.VentureName,
		&s.Location,
		&s.Mission,
		&s.What,
		&raw,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PlanSession{}, err
	}
	if err != nil {
		return domain.PlanSession{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Optional); err != nil {
			return domain.PlanSession{}, fmt.Errorf("unmarshal optional fields: %w", err)
		}
	}
	return s, nil
}

func (r *PgPlanRepository) LatestSessionID(ctx context.Context, userID string) (string, error) {
	const query = `
		SELECT id
		FROM plan_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var id string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PgPlanRepository) AppendMessage(ctx context.Context, message domain.PlanMessage) error {
	const query = `
		INSERT INTO plan_messages (id, session_id, role, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		message.Role,
		message.Message,
		message.CreatedAt,
	)
	return err
}

func (r *PgPlanRepository) ListMessages(ctx context.Context, sessionID string) ([]domain.PlanMessage, error) {
	const query = `
		SELECT id, session_id, role, message, created_at
		FROM plan_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.PlanMessage
	for rows.Next() {
		var msg domain.PlanMessage
		err = rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Role,
			&msg.Message,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
