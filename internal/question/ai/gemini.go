package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "models/gemini-2.5-flash"
)

// GeminiBackend talks to the Gemini generateContent API.
type GeminiBackend struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
}

func NewGeminiBackend(cfg Config, httpClient *http.Client) *GeminiBackend {
	base := cfg.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &GeminiBackend{
		httpClient:  httpClient,
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(base, "/"),
		model:       model,
		temperature: cfg.Temperature,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete implements Backend. The first non-empty part of any candidate wins.
func (b *GeminiBackend) Complete(ctx context.Context, system, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	genConfig := map[string]interface{}{
		"responseMimeType": "application/json",
	}
	if b.temperature > 0 {
		genConfig["temperature"] = b.temperature
	}
	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig:  genConfig,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", b.baseURL, b.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decode gemini payload: %w", err)
	}

	for _, c := range gResp.Candidates {
		for _, part := range c.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", ErrNoContent
}
