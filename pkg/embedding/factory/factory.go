package factory

import (
	"fmt"
	"net/http"
	"time"

	"document-qa-be/internal/config"
	"document-qa-be/pkg/embedding"
	"document-qa-be/pkg/embedding/jina"
)

// NewEmbeddingProvider builds the provider named by EMBEDDING_PROVIDER.
func NewEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	client := &http.Client{Timeout: time.Duration(cfg.Ai.RequestTimeoutSec) * time.Second}

	switch cfg.Ai.EmbeddingProvider {
	case "jina":
		if cfg.Keys.Jina == "" {
			return nil, fmt.Errorf("JINA_API_KEY is required for the jina embedding provider")
		}
		return jina.NewJinaProvider(cfg.Keys.Jina, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimension, client), nil
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY is required for the gemini embedding provider")
		}
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimension, client), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel, client), nil
	case "openai":
		return embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
