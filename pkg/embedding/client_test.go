package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls     int
	lastTask  string
	dimension int
	drop      bool
	err       error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	s.calls++
	s.lastTask = taskType
	if s.err != nil {
		return nil, s.err
	}
	n := len(texts)
	if s.drop {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, s.dimension)
		v[0] = float32(len(texts[i]))
		out[i] = v
	}
	return out, nil
}

func TestEmbedReturnsOneVectorPerText(t *testing.T) {
	provider := &stubProvider{dimension: 4}
	client := NewClient(provider, 4)

	vectors, err := client.Embed(context.Background(), []string{"a", "bb", "ccc"}, ModeDocument)
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, v := range vectors {
		assert.Len(t, v, 4)
		assert.Equal(t, float32(i+1), v[0])
	}
	assert.Equal(t, TaskRetrievalDocument, provider.lastTask)
	assert.Equal(t, 1, provider.calls)
}

func TestEmbedFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		dim      int
	}{
		{"provider error", &stubProvider{dimension: 4, err: errors.New("503")}, 4},
		{"count mismatch", &stubProvider{dimension: 4, drop: true}, 4},
		{"dimension mismatch", &stubProvider{dimension: 3}, 4},
		{"timeout", &stubProvider{dimension: 4, err: context.DeadlineExceeded}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.provider, tt.dim).Embed(context.Background(), []string{"a", "b"}, ModeDocument)
			require.Error(t, err)
			assert.Equal(t, apperror.KindEmbeddingService, apperror.KindOf(err))
			assert.Equal(t, 1, tt.provider.calls)
		})
	}
}

func TestEmbedCancelledBeforeCall(t *testing.T) {
	provider := &stubProvider{dimension: 4}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(provider, 4).Embed(ctx, []string{"a"}, ModeQuery)
	assert.Equal(t, apperror.KindCancelled, apperror.KindOf(err))
	assert.Zero(t, provider.calls)
}

func TestEmbedEmptyInput(t *testing.T) {
	provider := &stubProvider{dimension: 4}
	vectors, err := NewClient(provider, 4).Embed(context.Background(), nil, ModeDocument)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Zero(t, provider.calls)
}

func TestQueryCacheSkipsSecondCall(t *testing.T) {
	provider := &stubProvider{dimension: 4}
	client := NewClient(provider, 4, WithQueryCache(cache.NewMemoryCache(time.Minute, time.Minute), time.Minute))
	ctx := context.Background()

	first, err := client.Embed(ctx, []string{"what is go?"}, ModeQuery)
	require.NoError(t, err)
	second, err := client.Embed(ctx, []string{"what is go?"}, ModeQuery)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, TaskRetrievalQuery, provider.lastTask)

	_, err = client.Embed(ctx, []string{"what is go?"}, ModeDocument)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestNormalizeVector(t *testing.T) {
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, normalizeVector([]float32{3, 4}), 1e-6)
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))
}
