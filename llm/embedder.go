package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultEmbeddingModel = "text-embedding-004"
	defaultDimensions     = 768
)

// GenAIEmbedder produces retrieval-query embeddings with the Google GenAI SDK.
type GenAIEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int32
	taskType   string
}

// NewGenAIEmbedder creates an embedder. dimensions <= 0 selects 768, the
// width of the knowledge_base.embedding column.
func NewGenAIEmbedder(ctx context.Context, apiKey, model string, dimensions int) (*GenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai: %w", ErrNotConfigured)
	}
	if model == "" {
		model = defaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: int32(dimensions),
		taskType:   "RETRIEVAL_QUERY",
	}, nil
}

// ForDocuments returns a copy that embeds stored documents rather than queries.
func (e *GenAIEmbedder) ForDocuments() *GenAIEmbedder {
	cp := *e
	cp.taskType = "RETRIEVAL_DOCUMENT"
	return &cp
}

// Embed returns the embedding of text.
func (e *GenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	dim := e.dimensions
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             e.taskType,
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

// Dimensions returns the embedding width.
func (e *GenAIEmbedder) Dimensions() int {
	return int(e.dimensions)
}
