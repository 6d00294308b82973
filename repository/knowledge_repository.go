package repository

import (
	"context"
	"fmt"

	"ruraldraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the width of the knowledge_base.embedding column.
const EmbeddingDimensions = 768

// KnowledgeRepository handles database operations for the knowledge base
type KnowledgeRepository struct {
	db *pgxpool.Pool
}

// NewKnowledgeRepository creates a new knowledge repository
func NewKnowledgeRepository(db *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// FindByTags returns active items sharing at least one tag with tags
func (r *KnowledgeRepository) FindByTags(ctx context.Context, tags []string, limit int) ([]models.KnowledgeItem, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, title, content, category, tags, is_active, created_at
		FROM knowledge_base
		WHERE tags && $1 AND is_active = true
		ORDER BY category, title
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, tags, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	defer rows.Close()

	var items []models.KnowledgeItem
	for rows.Next() {
		var item models.KnowledgeItem
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Content,
			&item.Category,
			&item.Tags,
			&item.IsActive,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge items: %w", err)
	}

	return items, nil
}

// SearchSimilar performs a cosine-distance vector search over active items
func (r *KnowledgeRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.KnowledgeItem, error) {
	if len(embedding) != EmbeddingDimensions {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDimensions, len(embedding))
	}
	if limit <= 0 {
		limit = 3
	}

	query := `
		SELECT id, title, content, category, tags, is_active, created_at,
			embedding <=> $1 AS distance
		FROM knowledge_base
		WHERE is_active = true AND embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	defer rows.Close()

	var items []models.KnowledgeItem
	for rows.Next() {
		var item models.KnowledgeItem
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Content,
			&item.Category,
			&item.Tags,
			&item.IsActive,
			&item.CreatedAt,
			&item.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge items: %w", err)
	}

	return items, nil
}

// Upsert inserts an item or replaces the one with the same title
func (r *KnowledgeRepository) Upsert(ctx context.Context, item *models.KnowledgeItem) error {
	query := `
		INSERT INTO knowledge_base (title, content, category, tags, is_active, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (title) DO UPDATE SET
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			is_active = EXCLUDED.is_active,
			embedding = EXCLUDED.embedding
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		item.Title,
		item.Content,
		item.Category,
		item.Tags,
		item.IsActive,
		item.Embedding,
	).Scan(&item.ID, &item.CreatedAt)
}
