package extraction

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"document-qa-be/internal/config"
)

// Extractor turns the raw bytes of a PDF into text. Page boundaries are
// marked with PageMarker lines.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	Name() string
}

// PageMarker formats the line inserted before the text of page n.
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// NewExtractor builds the extractor named by EXTRACTION_PROVIDER.
func NewExtractor(cfg *config.Config) (Extractor, error) {
	switch cfg.Ai.ExtractionProvider {
	case "", "local":
		return NewLocalExtractor(), nil
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY is required for the gemini extraction provider")
		}
		client := &http.Client{Timeout: time.Duration(cfg.Ai.RequestTimeoutSec) * time.Second}
		return NewGeminiExtractor(cfg.Keys.GoogleGemini, cfg.Ai.ExtractionModel, client), nil
	default:
		return nil, fmt.Errorf("unsupported extraction provider: %s", cfg.Ai.ExtractionProvider)
	}
}
