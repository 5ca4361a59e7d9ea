package search

import (
	"context"

	"document-qa-be/internal/config"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/pkg/embedding"

	"github.com/google/uuid"
)

// Orchestrator handles query embedding, vector search and candidate filtering
type Orchestrator struct {
	embedder embedding.Embedder
	logger   logger.ILogger
}

func NewOrchestrator(embedder embedding.Embedder, logger logger.ILogger) *Orchestrator {
	return &Orchestrator{
		embedder: embedder,
		logger:   logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	NumCandidates int
	Limit         int
	Threshold     float64
	TopK          int
}

func ConfigFromRag(rag config.RagConfig) Config {
	return Config{
		NumCandidates: rag.NumCandidates,
		Limit:         rag.SearchLimit,
		Threshold:     rag.SimilarityThreshold,
		TopK:          rag.TopK,
	}
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return ConfigFromRag(config.DefaultRagConfig())
}

// Result is one retained chunk.
type Result struct {
	DocumentId uuid.UUID `json:"documentId"`
	Filename   string    `json:"filename"`
	Text       string    `json:"text"`
	Score      float64   `json:"score"`
	ChunkIndex int       `json:"chunkIndex"`
}

// Execute embeds the query, searches and returns the chunks that pass the
// threshold, capped to TopK, best first.
func (o *Orchestrator) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	cfg Config,
) ([]Result, error) {
	vectors, err := o.embedder.Embed(ctx, []string{query}, embedding.ModeQuery)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("vector search", err)
	}

	scored, err := uow.ChunkVectorRepository().Search(ctx, vectors[0], cfg.NumCandidates, cfg.Limit)
	if err != nil {
		return nil, apperror.Storage("vector search failed", err)
	}

	o.logger.Debug("SEARCH", "Raw search results", map[string]interface{}{"count": len(scored)})

	results := FilterCandidates(scored, cfg.Threshold, cfg.TopK)

	o.logger.Debug("SEARCH", "Filtered candidates", map[string]interface{}{
		"count":     len(results),
		"threshold": cfg.Threshold,
	})
	return results, nil
}

// FilterCandidates keeps results with score >= threshold, in input order,
// and stops after topK.
func FilterCandidates(scored []*contract.ScoredChunk, threshold float64, topK int) []Result {
	results := make([]Result, 0, topK)
	for _, s := range scored {
		if len(results) >= topK {
			break
		}
		if s.Score < threshold {
			continue
		}
		results = append(results, Result{
			DocumentId: s.Chunk.DocumentId,
			Filename:   s.Chunk.Filename,
			Text:       s.Chunk.Text,
			Score:      s.Score,
			ChunkIndex: s.Chunk.ChunkIndex,
		})
	}
	return results
}

// Citations returns the distinct, non-empty filenames of results in
// first-seen order.
func Citations(results []Result) []string {
	citations := make([]string, 0, len(results))
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Filename == "" || seen[r.Filename] {
			continue
		}
		seen[r.Filename] = true
		citations = append(citations, r.Filename)
	}
	return citations
}
