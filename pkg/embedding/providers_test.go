package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProviderBatchesAndNormalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Input)
		_, _ = w.Write([]byte(`{"embeddings":[[3,4],[0,2]]}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "test-model", server.Client())
	vectors, err := p.Generate(context.Background(), []string{"a", "b"}, TaskRetrievalDocument)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, vectors[0], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1}, vectors[1], 1e-6)
}

func TestGeminiProviderSendsTaskType(t *testing.T) {
	var captured geminiBatchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[1,0]}]}`))
	}))
	defer server.Close()

	p := NewGeminiProvider("key", "", 2, server.Client()).(*GeminiProvider)
	p.BaseURL = server.URL

	vectors, err := p.Generate(context.Background(), []string{"q"}, TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}}, vectors)
	require.Len(t, captured.Requests, 1)
	assert.Equal(t, TaskRetrievalQuery, captured.Requests[0].TaskType)
	assert.Equal(t, 2, captured.Requests[0].OutputDimensionality)
}

func TestGeminiProviderNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewGeminiProvider("key", "", 2, server.Client()).(*GeminiProvider)
	p.BaseURL = server.URL

	_, err := p.Generate(context.Background(), []string{"q"}, TaskRetrievalQuery)
	assert.Error(t, err)
}

type fakeEmbedder struct {
	queries   int
	documents int
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	f.documents++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queries++
	return []float32{0, 1}, nil
}

func TestEmbedderProviderRoutesQueries(t *testing.T) {
	fake := &fakeEmbedder{}
	p := NewEmbedderProvider("m", fake)

	_, err := p.Generate(context.Background(), []string{"q"}, TaskRetrievalQuery)
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), []string{"a", "b"}, TaskRetrievalDocument)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.queries)
	assert.Equal(t, 1, fake.documents)
	assert.Equal(t, "openai:m", p.Name())
}
