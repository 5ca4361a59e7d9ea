package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"document-qa-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSendsTaskAndRestoresOrder(t *testing.T) {
	var captured embeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}))
	defer server.Close()

	p := NewJinaProvider("secret", "", 2, server.Client()).WithBaseURL(server.URL)
	vectors, err := p.Generate(context.Background(), []string{"a", "b"}, embedding.TaskRetrievalDocument)
	require.NoError(t, err)

	assert.Equal(t, "retrieval.passage", captured.Task)
	assert.Equal(t, 2, captured.Dimensions)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
}

func TestGenerateReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"bad key"}`))
	}))
	defer server.Close()

	p := NewJinaProvider("bad", "", 2, server.Client()).WithBaseURL(server.URL)
	_, err := p.Generate(context.Background(), []string{"a"}, embedding.TaskRetrievalQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
