package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	ApiKey    string
	Model     string
	Dimension int
	BaseURL   string
	Client    *http.Client
}

func NewGeminiProvider(apiKey, model string, dimension int, client *http.Client) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-004"
	}
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		Model:     model,
		Dimension: dimension,
		BaseURL:   geminiBaseURL,
		Client:    client,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	TaskType             string        `json:"taskType,omitempty"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (p *GeminiProvider) Name() string {
	return "gemini:" + p.Model
}

func (p *GeminiProvider) Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	modelPath := "models/" + p.Model
	batch := geminiBatchRequest{Requests: make([]geminiEmbedRequest, len(texts))}
	for i, text := range texts {
		batch.Requests[i] = geminiEmbedRequest{
			Model:                modelPath,
			Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType:             taskType,
			OutputDimensionality: p.Dimension,
		}
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s:batchEmbedContents", p.BaseURL, modelPath)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var batchRes geminiBatchResponse
	if err := json.Unmarshal(resByte, &batchRes); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(batchRes.Embeddings))
	for i, e := range batchRes.Embeddings {
		// Truncated gemini vectors are not unit length.
		vectors[i] = normalizeVector(e.Values)
	}
	return vectors, nil
}
