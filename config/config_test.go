package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.IndexBackend)
	assert.Equal(t, "grok", cfg.LLMProvider)
	assert.Equal(t, "https://api.x.ai/v1/chat/completions", cfg.LLMURL)
	assert.Equal(t, 5, cfg.MaxConcurrent)
}

func TestLoad_ProviderSelectsEndpoint(t *testing.T) {
	tests := []struct {
		provider string
		wantURL  string
	}{
		{"grok", "https://api.x.ai/v1/chat/completions"},
		{"openai", "https://api.openai.com/v1/chat/completions"},
		{"ollama", "http://localhost:11434/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", tt.provider)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.LLMURL)
		})
	}
}

func TestLoad_ExplicitURLWinsOverProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_URL", "http://gateway:9999/v1/chat/completions")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://gateway:9999/v1/chat/completions", cfg.LLMURL)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "LLM_PROVIDER", "gemini"},
		{"unknown index backend", "INDEX_BACKEND", "faiss"},
		{"unknown run store", "RUN_STORE", "dynamo"},
		{"threshold out of range", "SIMILARITY_THRESHOLD", "1.5"},
		{"zero concurrency", "MAX_CONCURRENT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_PgvectorRequiresDSN(t *testing.T) {
	t.Setenv("INDEX_BACKEND", "pgvector")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("POSTGRES_DSN", "postgres://localhost/faqbot")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pgvector", cfg.IndexBackend)
}
