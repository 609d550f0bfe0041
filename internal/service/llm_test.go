package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deepSeekConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		Provider:      config.ProviderDeepSeek,
		DeepSeekKey:   "test-key",
		DeepSeekURL:   url,
		DeepSeekModel: "deepseek-chat",
		MaxTokens:     1024,
		Temperature:   0.2,
		Timeout:       5 * time.Second,
	}
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(body)
}

func TestDeepSeekClientComplete(t *testing.T) {
	var got service.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"1":{}}`)))
	}))
	defer server.Close()

	client, err := service.NewDeepSeekClient(deepSeekConfig(server.URL))
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), "plan please")
	require.NoError(t, err)
	assert.Equal(t, `{"1":{}}`, out)

	assert.Equal(t, "deepseek-chat", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "plan please", got.Messages[1].Content)
}

func TestDeepSeekClientUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"garbage", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := service.NewDeepSeekClient(deepSeekConfig(server.URL))
			require.NoError(t, err)
			_, err = client.Complete(context.Background(), "prompt")
			assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
		})
	}
}

func TestDeepSeekClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := service.NewDeepSeekClient(deepSeekConfig(url))
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
}

func TestNewLLMClient(t *testing.T) {
	_, err := service.NewDeepSeekClient(config.LLMConfig{})
	assert.Error(t, err)

	client, err := service.NewLLMClient(context.Background(), deepSeekConfig("http://localhost"))
	require.NoError(t, err)
	assert.IsType(t, &service.DeepSeekClient{}, client)

	_, err = service.NewLLMClient(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)
}
