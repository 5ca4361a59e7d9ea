package factory

import (
	"fmt"
	"net/http"
	"time"

	"document-qa-be/internal/config"
	"document-qa-be/pkg/llm"
	"document-qa-be/pkg/llm/huggingface"
	"document-qa-be/pkg/llm/ollama"
	"document-qa-be/pkg/llm/openai"
)

func NewLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	timeout := time.Duration(cfg.Ai.RequestTimeoutSec) * time.Second

	switch cfg.Ai.LLMProvider {
	case "ollama":
		return ollama.New(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel, timeout), nil
	case "openai":
		return openai.New(cfg.Keys.OpenAI, cfg.Ai.LLMModel)
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.Keys.HuggingFace, "", cfg.Ai.LLMModel, &http.Client{Timeout: timeout}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Ai.LLMProvider)
	}
}
