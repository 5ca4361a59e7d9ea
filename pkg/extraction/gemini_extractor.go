package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	extractionPrompt = `Extract the complete text of this PDF document.
Rules:
- Preserve the reading order and paragraph breaks.
- Before the text of each page write a line "--- Page N ---" where N is the page number.
- For every image, chart or diagram write one short line "[Visual: <brief description>]" where it appears.
- Do not summarize, translate or add commentary.`
)

// GeminiExtractor sends the PDF inline to a multimodal Gemini model, which
// also describes visuals.
type GeminiExtractor struct {
	ApiKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewGeminiExtractor(apiKey, model string, client *http.Client) *GeminiExtractor {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiExtractor{
		ApiKey:  apiKey,
		Model:   model,
		BaseURL: geminiBaseURL,
		Client:  client,
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func (e *GeminiExtractor) Name() string {
	return "gemini:" + e.Model
}

func (e *GeminiExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reqBody := generateRequest{
		Contents: []generateContent{{
			Role: "user",
			Parts: []generatePart{
				{InlineData: &inlineData{MimeType: "application/pdf", Data: base64.StdEncoding.EncodeToString(data)}},
				{Text: extractionPrompt},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", e.BaseURL, e.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", e.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var genRes generateResponse
	if err := json.Unmarshal(resByte, &genRes); err != nil {
		return "", err
	}
	if len(genRes.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range genRes.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
