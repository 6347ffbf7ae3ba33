package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4"
)

// OpenAIBackend talks to a chat-completions compatible endpoint.
type OpenAIBackend struct {
	httpClient  *http.Client
	apiKey      string
	endpoint    string
	model       string
	jsonMode    bool
	temperature float64
}

func NewOpenAIBackend(cfg Config, httpClient *http.Client) *OpenAIBackend {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIBackend{
		httpClient:  httpClient,
		apiKey:      cfg.APIKey,
		endpoint:    strings.TrimSuffix(base, "/") + "/chat/completions",
		model:       model,
		jsonMode:    cfg.JSONMode,
		temperature: cfg.Temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete implements Backend.
func (b *OpenAIBackend) Complete(ctx context.Context, system, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload := chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: b.temperature,
	}
	if b.jsonMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}

	var chatResp chatResponse
	decodeErr := json.Unmarshal(raw, &chatResp)
	if resp.StatusCode >= 300 {
		if decodeErr == nil && chatResp.Error != nil {
			return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, chatResp.Error.Message)
		}
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode openai payload: %w", decodeErr)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return chatResp.Choices[0].Message.Content, nil
}
