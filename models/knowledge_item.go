package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeItem is a piece of reference legal text (statute, precedent,
// thesis) used to ground generation prompts.
type KnowledgeItem struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Category  string           `json:"category"` // "legislacao", "jurisprudencia", "tese"
	Tags      []string         `json:"tags"`
	IsActive  bool             `json:"is_active"`
	Embedding *pgvector.Vector `json:"-"`
	Distance  float64          `json:"distance,omitempty"` // cosine distance for semantic hits
	CreatedAt time.Time        `json:"created_at"`
}
