// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/go-resty/resty/v2"
)

// OpenAI defaults used by the spam detector's second pass.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com"
	DefaultOpenAIModel   = "gpt-4o-mini"

	// classification wants determinism more than creativity
	completionTemperature = 0.3
)

// OpenAIConfig configures the chat-completions client. Any
// OpenAI-compatible endpoint works via BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type openAIClient struct {
	client *resty.Client
	model  string
	logger *logger.Logger
}

// NewOpenAIClient constructs a [ChatCompleter] speaking the chat
// completions protocol in JSON mode.
func NewOpenAIClient(cfg OpenAIConfig, log *logger.Logger) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no api key configured", ErrUnauthorized)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid openai base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey)

	return &openAIClient{client: client, model: cfg.Model, logger: log}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements [ChatCompleter].
func (o *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: completionTemperature,
	}
	req.ResponseFormat.Type = "json_object"

	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var payload chatResponse
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return payload.Choices[0].Message.Content, nil
}
