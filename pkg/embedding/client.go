package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/pkg/cache"
)

// Mode selects how texts are embedded: stored passages or search queries.
type Mode string

const (
	ModeDocument Mode = "DOCUMENT"
	ModeQuery    Mode = "QUERY"
)

func (m Mode) taskType() (string, bool) {
	switch m {
	case ModeDocument:
		return TaskRetrievalDocument, true
	case ModeQuery:
		return TaskRetrievalQuery, true
	default:
		return "", false
	}
}

// Embedder is the narrow contract the pipelines depend on.
type Embedder interface {
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)
}

// Client adapts an EmbeddingProvider to Embedder. It checks the vector count
// and dimension of every response and never retries.
type Client struct {
	provider  EmbeddingProvider
	dimension int
	timeout   time.Duration
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    logger.ILogger
}

type ClientOption func(*Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithQueryCache caches single QUERY-mode embeddings.
func WithQueryCache(store cache.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

func WithLogger(l logger.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func NewClient(provider EmbeddingProvider, dimension int, opts ...ClientOption) *Client {
	c := &Client{
		provider:  provider,
		dimension: dimension,
		logger:    logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Dimension() int {
	return c.dimension
}

func (c *Client) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	taskType, ok := mode.taskType()
	if !ok {
		return nil, apperror.New(apperror.KindInternal, fmt.Sprintf("unknown embedding mode %q", mode), nil)
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, apperror.Cancelled("embedding", err)
	}

	cacheable := mode == ModeQuery && len(texts) == 1 && c.cache != nil
	var key string
	if cacheable {
		key = c.cacheKey(texts[0])
		if vector, hit := c.lookup(ctx, key); hit {
			return [][]float32{vector}, nil
		}
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vectors, err := c.provider.Generate(callCtx, texts, taskType)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, apperror.Cancelled("embedding", err)
		}
		return nil, apperror.EmbeddingService(fmt.Sprintf("%s request failed", c.provider.Name()), err)
	}

	if len(vectors) != len(texts) {
		return nil, apperror.EmbeddingService(
			fmt.Sprintf("%s returned %d vectors for %d texts", c.provider.Name(), len(vectors), len(texts)), nil)
	}
	for i, v := range vectors {
		if len(v) != c.dimension {
			return nil, apperror.EmbeddingService(
				fmt.Sprintf("%s returned vector %d with dimension %d, expected %d", c.provider.Name(), i, len(v), c.dimension), nil)
		}
	}

	if cacheable {
		c.store(ctx, key, vectors[0])
	}
	return vectors, nil
}

func (c *Client) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.provider.Name() + "|" + strconv.Itoa(c.dimension) + "|" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (c *Client) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("EMBEDDING", "Query cache lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !found {
		return nil, false
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil || len(vector) != c.dimension {
		return nil, false
	}
	return vector, true
}

func (c *Client) store(ctx context.Context, key string, vector []float32) {
	raw, err := json.Marshal(vector)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
		c.logger.Warn("EMBEDDING", "Query cache store failed", map[string]interface{}{"error": err.Error()})
	}
}
