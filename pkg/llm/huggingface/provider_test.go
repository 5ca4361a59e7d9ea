package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"document-qa-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsRolesAndAuth(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"grounded"}}]}`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider("hf_token", server.URL, "meta-llama/Llama-3.1-8B-Instruct", nil)
	answer, err := p.Chat(context.Background(), []llm.Message{llm.SystemMessage("rules"), llm.UserMessage("question")})
	require.NoError(t, err)
	assert.Equal(t, "grounded", answer)

	assert.Equal(t, "meta-llama/Llama-3.1-8B-Instruct", captured.Model)
	assert.Equal(t, 800, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestChatReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[],"error":{"message":"model is loading"}}`))
	}))
	defer server.Close()

	_, err := NewHuggingFaceProvider("", server.URL, "m", nil).Chat(context.Background(), []llm.Message{llm.UserMessage("q")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is loading")
}
