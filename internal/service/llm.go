package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const systemPrompt = "You are a registered dietitian who plans meals. Always answer with a single valid JSON document and nothing else."

// LLMClient sends one prompt to a language model and returns the raw text answer.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Message is one chat message of a DeepSeek request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the DeepSeek chat completion request body.
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float32           `json:"temperature"`
	MaxTokens      int32             `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DeepSeekClient talks to the DeepSeek chat completions endpoint.
type DeepSeekClient struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int32
	temperature float32
	client      *http.Client
}

var _ LLMClient = (*DeepSeekClient)(nil)

func NewDeepSeekClient(cfg config.LLMConfig) (*DeepSeekClient, error) {
	if cfg.DeepSeekKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY is not set")
	}
	return &DeepSeekClient{
		apiKey:      cfg.DeepSeekKey,
		apiURL:      cfg.DeepSeekURL,
		model:       cfg.DeepSeekModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *DeepSeekClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "DeepSeekClient.Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("llm.model", c.model)))
	defer span.End()

	reqBody := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[LLMClient] Sending request to DeepSeek (model=%s, prompt=%d bytes)", c.model, len(prompt))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", nutrition.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", nutrition.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMClient] DeepSeek returned status %d: %s", resp.StatusCode, preview(string(body)))
		return "", fmt.Errorf("%w: API request failed with status %d", nutrition.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", nutrition.ErrUpstreamUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", nutrition.ErrUpstreamUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}

// NewLLMClient builds the client for the configured provider.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderBedrock:
		awsCfg, err := config.LoadAWSConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewBedrockClientFromConfig(awsCfg, cfg), nil
	case config.ProviderDeepSeek, "":
		return NewDeepSeekClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// preview shortens model output for logging.
func preview(s string) string {
	const limit = 200
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
