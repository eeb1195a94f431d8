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

// SentimentRepository define el cache de sentimientos por topic.
// Put sobreescribe la entrada completa; los datos viejos persisten tal cual
// hasta el siguiente ciclo de refresco.
type SentimentRepository interface {
	Put(ctx context.Context, report domain.SentimentReport) error
	GetByTopic(ctx context.Context, topic string) (domain.SentimentReport, error)
}

// PgSentimentRepository implementa SentimentRepository usando pgxpool.
type PgSentimentRepository struct {
	pool *pgxpool.Pool
}

func NewPgSentimentRepository(pool *pgxpool.Pool) *PgSentimentRepository {
	return &PgSentimentRepository{pool: pool}
}

func (r *PgSentimentRepository) Put(ctx context.Context, report domain.SentimentReport) error {
	const query = `
		INSERT INTO sentiments (topic, score, articles, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (topic) DO UPDATE
		SET score = EXCLUDED.score,
		    articles = EXCLUDED.articles,
		    updated_at = EXCLUDED.updated_at
	`
	var articles []byte
	if report.Articles != nil {
		doc, err := json.Marshal(report.Articles)
		if err != nil {
			return fmt.Errorf("marshal articles: %w", err)
		}
		articles = doc
	}
	_, err := r.pool.Exec(ctx, query,
		report.Topic,
		report.Score,
		articles,
		report.UpdatedAt,
	)
	return err
}

func (r *PgSentimentRepository) GetByTopic(ctx context.Context, topic string) (domain.SentimentReport, error) {
	const query = `
		SELECT topic, score, articles, updated_at
		FROM sentiments
		WHERE topic = $1
	`
	var (
		report domain.SentimentReport
		raw    []byte
	)
	err := r.pool.QueryRow(ctx, query, topic).Scan(
		&report.Topic,
		&report.Score,
		&raw,
		&report.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SentimentReport{}, err
	}
	if err != nil {
		return domain.SentimentReport{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &report.Articles); err != nil {
			return domain.SentimentReport{}, fmt.Errorf("unmarshal articles: %w", err)
		}
	}
	return report, nil
}
