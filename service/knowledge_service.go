package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ruraldraft-backend/cache"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/llm"
	"ruraldraft-backend/models"
)

// KnowledgeStore is the persistence side of the knowledge base.
type KnowledgeStore interface {
	FindByTags(ctx context.Context, tags []string, limit int) ([]models.KnowledgeItem, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.KnowledgeItem, error)
}

// KnowledgeService assembles reference text for generation prompts
type KnowledgeService struct {
	store         KnowledgeStore
	embedder      llm.Embedder
	cache         cache.Cache
	logger        logger.Logger
	tagLimit      int
	semanticLimit int
}

// KnowledgeServiceOption is a functional option for KnowledgeService
type KnowledgeServiceOption func(*KnowledgeService)

// KnowledgeWithStore sets the knowledge store
func KnowledgeWithStore(store KnowledgeStore) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.store = store
	}
}

// KnowledgeWithEmbedder enables semantic search alongside the tag lookup
func KnowledgeWithEmbedder(e llm.Embedder) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.embedder = e
	}
}

// KnowledgeWithCache sets the cache
func KnowledgeWithCache(c cache.Cache) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.cache = c
	}
}

// KnowledgeWithLogger sets the logger
func KnowledgeWithLogger(l logger.Logger) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.logger = l
	}
}

// KnowledgeWithLimits caps the tag and semantic result counts
func KnowledgeWithLimits(tagLimit, semanticLimit int) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		if tagLimit > 0 {
			s.tagLimit = tagLimit
		}
		if semanticLimit > 0 {
			s.semanticLimit = semanticLimit
		}
	}
}

// NewKnowledgeService creates a new knowledge service
func NewKnowledgeService(opts ...KnowledgeServiceOption) *KnowledgeService {
	s := &KnowledgeService{
		cache:         cache.Nop{},
		tagLimit:      10,
		semanticLimit: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrNop(s.logger)
	return s
}

var ErrKnowledgeStoreNotSet = errors.New("knowledge store not set")

// Context returns the active items matching keywords, formatted for a
// prompt. An empty string with a nil error means nothing matched.
func (s *KnowledgeService) Context(ctx context.Context, keywords []string) (string, error) {
	if s.store == nil {
		return "", ErrKnowledgeStoreNotSet
	}

	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			terms = append(terms, k)
		}
	}
	if len(terms) == 0 {
		return "", nil
	}

	key := cache.Key("knowledge", terms...)
	var cached string
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	items, err := s.store.FindByTags(ctx, terms, s.tagLimit)
	if err != nil {
		return "", fmt.Errorf("knowledge tag lookup: %w", err)
	}

	if s.embedder != nil {
		similar, err := s.semantic(ctx, terms)
		if err != nil {
			s.logger.Warn("semantic knowledge search failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		items = mergeItems(items, similar)
	}

	text := FormatKnowledge(items)
	if text != "" {
		if err := s.cache.SetJSON(ctx, key, text); err != nil {
			s.logger.Warn("failed to cache knowledge context", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return text, nil
}

func (s *KnowledgeService) semantic(ctx context.Context, terms []string) ([]models.KnowledgeItem, error) {
	vec, err := s.embedder.Embed(ctx, strings.Join(terms, " "))
	if err != nil {
		return nil, err
	}
	return s.store.SearchSimilar(ctx, vec, s.semanticLimit)
}

func mergeItems(a, b []models.KnowledgeItem) []models.KnowledgeItem {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]models.KnowledgeItem, 0, len(a)+len(b))
	for _, list := range [][]models.KnowledgeItem{a, b} {
		for _, item := range list {
			id := item.ID.String()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, item)
		}
	}
	return out
}

// FormatKnowledge renders items as delimited blocks headed by the
// upper-cased title.
func FormatKnowledge(items []models.KnowledgeItem) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, fmt.Sprintf("\n---\n[%s]\n%s\n---", strings.ToUpper(item.Title), item.Content))
	}
	return strings.Join(blocks, "\n")
}
