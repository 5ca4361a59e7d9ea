package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider embeds through langchaingo's OpenAI client, which batches
// documents and strips newlines the way the OpenAI docs recommend.
type OpenAIProvider struct {
	model    string
	embedder embeddings.Embedder
}

func NewOpenAIProvider(apiKey, model string) (EmbeddingProvider, error) {
	if model == "" {
		model = "text-embedding-3-small"
	}
	opts := []openai.Option{openai.WithEmbeddingModel(model)}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to construct openai embedder: %w", err)
	}
	return &OpenAIProvider{model: model, embedder: embedder}, nil
}

// NewEmbedderProvider wraps any langchaingo embedder.
func NewEmbedderProvider(model string, embedder embeddings.Embedder) EmbeddingProvider {
	return &OpenAIProvider{model: model, embedder: embedder}
}

func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

func (p *OpenAIProvider) Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if taskType == TaskRetrievalQuery && len(texts) == 1 {
		vector, err := p.embedder.EmbedQuery(ctx, texts[0])
		if err != nil {
			return nil, err
		}
		return [][]float32{vector}, nil
	}
	return p.embedder.EmbedDocuments(ctx, texts)
}
