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

// UserRepository define el contrato de persistencia para perfiles de usuario.
// El perfil completo vive como documento JSONB para soportar atributos con
// nombre arbitrario.
type UserRepository interface {
	Upsert(ctx context.Context, uid string, attributes map[string]any) error
	GetByID(ctx context.Context, uid string) (domain.UserProfile, error)
	ReplaceAttribute(ctx context.Context, uid, attribute string, value any) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Upsert(ctx context.Context, uid string, attributes map[string]any) error {
	const query = `
		INSERT INTO users (id, attributes, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET attributes = users.attributes || EXCLUDED.attributes
	`
	doc, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	_, err = r.pool.Exec(ctx, query, uid, doc)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, uid string) (domain.UserProfile, error) {
	const query = `
		SELECT id, attributes, created_at
		FROM users
		WHERE id = $1
	`
	var (
		u   domain.UserProfile
		raw []byte
	)
	err := r.pool.QueryRow(ctx, query, uid).Scan(&u.UID, &raw, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, err
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if err := json.Unmarshal(raw, &u.Attributes); err != nil {
		return domain.UserProfile{}, fmt.Errorf("unmarshal attributes: %w", err)
	}
	return u, nil
}

// ReplaceAttribute reemplaza un atributo completo del documento: el valor
// anterior se descarta, no se mezcla. Una sola sentencia para que ningún
// lector concurrente observe el documento sin el atributo.
func (r *PgUserRepository) ReplaceAttribute(ctx context.Context, uid, attribute string, value any) error {
	const query = `
		UPDATE users
		SET attributes = (attributes - $2) || jsonb_build_object($2, $3::jsonb)
		WHERE id = $1
	`
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal attribute: %w", err)
	}
	tag, err := r.pool.Exec(ctx, query, uid, attribute, string(doc))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
