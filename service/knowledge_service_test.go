package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruraldraft-backend/cache"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/models"
)

type fakeStore struct {
	byTags    []models.KnowledgeItem
	similar   []models.KnowledgeItem
	tagErr    error
	tagCalls  int
	gotTags   []string
	gotLimit  int
	gotVector []float32
	simLimit  int
}

func (f *fakeStore) FindByTags(_ context.Context, tags []string, limit int) ([]models.KnowledgeItem, error) {
	f.tagCalls++
	f.gotTags = tags
	f.gotLimit = limit
	return f.byTags, f.tagErr
}

func (f *fakeStore) SearchSimilar(_ context.Context, embedding []float32, limit int) ([]models.KnowledgeItem, error) {
	f.gotVector = embedding
	f.simLimit = limit
	return f.similar, nil
}

type fakeEmbedder struct {
	err  error
	text string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

var (
	sumula149 = models.KnowledgeItem{ID: uuid.New(), Title: "Súmula 149 STJ", Content: "A prova exclusivamente testemunhal não basta."}
	art71     = models.KnowledgeItem{ID: uuid.New(), Title: "Art. 71 Lei 8.213/91", Content: "O salário-maternidade é devido à segurada."}
)

func TestFormatKnowledge(t *testing.T) {
	assert.Equal(t, "", FormatKnowledge(nil))
	assert.Equal(t,
		"\n---\n[SÚMULA 149 STJ]\nA prova exclusivamente testemunhal não basta.\n---\n"+
			"\n---\n[ART. 71 LEI 8.213/91]\nO salário-maternidade é devido à segurada.\n---",
		FormatKnowledge([]models.KnowledgeItem{sumula149, art71}))
}

func TestKnowledgeService_TagLookup(t *testing.T) {
	store := &fakeStore{byTags: []models.KnowledgeItem{sumula149}}
	s := NewKnowledgeService(KnowledgeWithStore(store), KnowledgeWithLogger(logger.NewTestLogger(t)))

	text, err := s.Context(context.Background(), []string{" Rural ", "", "MATERNIDADE"})
	require.NoError(t, err)
	assert.Contains(t, text, "[SÚMULA 149 STJ]")
	assert.Equal(t, []string{"rural", "maternidade"}, store.gotTags)
	assert.Equal(t, 10, store.gotLimit)
	assert.Nil(t, store.gotVector)
}

func TestKnowledgeService_SemanticMergeDedups(t *testing.T) {
	store := &fakeStore{
		byTags:  []models.KnowledgeItem{sumula149},
		similar: []models.KnowledgeItem{sumula149, art71},
	}
	emb := &fakeEmbedder{}
	s := NewKnowledgeService(KnowledgeWithStore(store), KnowledgeWithEmbedder(emb), KnowledgeWithLimits(5, 2))

	text, err := s.Context(context.Background(), []string{"rural", "maternidade"})
	require.NoError(t, err)
	assert.Equal(t, FormatKnowledge([]models.KnowledgeItem{sumula149, art71}), text)
	assert.Equal(t, "rural maternidade", emb.text)
	assert.Equal(t, 5, store.gotLimit)
	assert.Equal(t, 2, store.simLimit)
}

func TestKnowledgeService_EmbedderFailureKeepsTags(t *testing.T) {
	store := &fakeStore{byTags: []models.KnowledgeItem{art71}}
	s := NewKnowledgeService(
		KnowledgeWithStore(store),
		KnowledgeWithEmbedder(&fakeEmbedder{err: errors.New("quota")}),
		KnowledgeWithLogger(logger.NewTestLogger(t)),
	)

	text, err := s.Context(context.Background(), []string{"rural"})
	require.NoError(t, err)
	assert.Contains(t, text, "[ART. 71 LEI 8.213/91]")
}

func TestKnowledgeService_Errors(t *testing.T) {
	_, err := NewKnowledgeService().Context(context.Background(), []string{"rural"})
	assert.ErrorIs(t, err, ErrKnowledgeStoreNotSet)

	boom := errors.New("connection refused")
	s := NewKnowledgeService(KnowledgeWithStore(&fakeStore{tagErr: boom}))
	_, err = s.Context(context.Background(), []string{"rural"})
	assert.ErrorIs(t, err, boom)

	text, err := s.Context(context.Background(), []string{"  "})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestKnowledgeService_Cached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &fakeStore{byTags: []models.KnowledgeItem{sumula149}}
	s := NewKnowledgeService(KnowledgeWithStore(store), KnowledgeWithCache(cache.NewRedisCache(client)))

	first, err := s.Context(context.Background(), []string{"rural", "maternidade"})
	require.NoError(t, err)
	second, err := s.Context(context.Background(), []string{"rural", "maternidade"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.tagCalls)
	assert.True(t, mr.Exists(cache.Key("knowledge", "rural", "maternidade")))
}
