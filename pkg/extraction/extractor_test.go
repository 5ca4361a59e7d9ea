package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalExtractorRejectsGarbage(t *testing.T) {
	_, err := NewLocalExtractor().Extract(context.Background(), []byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestStripEmptyPages(t *testing.T) {
	assert.Equal(t, "", stripEmptyPages("--- Page 1 ---\n\n\n--- Page 2 ---\n"))

	text := "--- Page 1 ---\nhello"
	assert.Equal(t, text, stripEmptyPages(text))
}

func TestGeminiExtractorSendsInlinePDF(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"--- Page 1 ---\n"},{"text":"Hello world"}]}}]}`))
	}))
	defer server.Close()

	e := NewGeminiExtractor("key", "", server.Client())
	e.BaseURL = server.URL

	text, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nHello world", text)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "application/pdf", captured.Contents[0].Parts[0].InlineData.MimeType)
	assert.Equal(t, "JVBERi0xLjQ=", captured.Contents[0].Parts[0].InlineData.Data)
}

func TestGeminiExtractorNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	e := NewGeminiExtractor("key", "", server.Client())
	e.BaseURL = server.URL

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	assert.Error(t, err)
}
