package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"news-retriever/internal/domain"
)

// PassageRepository serves both retrieval methods from the same passage
// store: full-text search over the tsv column and pgvector cosine search
// over the embedding column. Article metadata is denormalized into every
// result row so both methods return identical presentation fields.
type PassageRepository struct {
	pool *pgxpool.Pool
}

// NewPassageRepository creates a repository backed by the given pool.
func NewPassageRepository(pool *pgxpool.Pool) *PassageRepository {
	return &PassageRepository{pool: pool}
}

var (
	_ domain.LexicalSearcher = (*PassageRepository)(nil)
	_ domain.DenseSearcher   = (*PassageRepository)(nil)
)

func (r *PassageRepository) SearchLexical(ctx context.Context, query string, limit int) ([]domain.RawCandidate, error) {
	sql := `
		SELECT
			p.id,
			p.article_id,
			p.position,
			p.content,
			p.embedding,
			ts_rank(p.tsv, plainto_tsquery('simple', $1)) AS score,
			a.title,
			a.url,
			a.source_domain,
			a.published_at
		FROM passages p
		JOIN articles a ON p.article_id = a.id
		WHERE p.tsv @@ plainto_tsquery('simple', $1)
		ORDER BY score DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run lexical search: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, domain.ProvenanceLexical)
}

func (r *PassageRepository) SearchDense(ctx context.Context, queryVector []float32, limit int) ([]domain.RawCandidate, error) {
	sql := `
		SELECT
			p.id,
			p.article_id,
			p.position,
			p.content,
			p.embedding,
			1 - (p.embedding <=> $1) AS score,
			a.title,
			a.url,
			a.source_domain,
			a.published_at
		FROM passages p
		JOIN articles a ON p.article_id = a.id
		WHERE p.embedding IS NOT NULL
		ORDER BY p.embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, sql, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run dense search: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, domain.ProvenanceDense)
}

func scanCandidates(rows pgx.Rows, source domain.Provenance) ([]domain.RawCandidate, error) {
	var candidates []domain.RawCandidate
	for rows.Next() {
		var (
			c           domain.RawCandidate
			embedding   *pgvector.Vector
			title       pgtype.Text
			url         pgtype.Text
			sourceDom   pgtype.Text
			publishedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Position, &c.Content,
			&embedding, &c.Score, &title, &url, &sourceDom, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if embedding != nil {
			c.Embedding = embedding.Slice()
		}
		c.Title = title.String
		c.URL = url.String
		c.SourceDomain = sourceDom.String
		if publishedAt.Valid {
			c.PublishedAt = publishedAt.Time
		} else {
			c.PublishedAt = time.Time{}
		}
		c.Source = source
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return candidates, nil
}
