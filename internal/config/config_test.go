package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"llm_provider": "openai",
		"search_provider": "serpapi",
		"concurrency": 4,
		"page_timeout_seconds": 30,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "serpapi", cfg.SearchProvider)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.PageTimeout())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
llm_provider: azure
azure_endpoint: https://gifts.openai.azure.com
azure_deployment: gpt-4o
country: in
location: India
progress_every: 3
require_auth: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.LLMProvider)
	assert.Equal(t, "https://gifts.openai.azure.com", cfg.AzureEndpoint)
	assert.Equal(t, "gpt-4o", cfg.AzureDeployment)
	assert.Equal(t, "India", cfg.Location)
	assert.Equal(t, 3, cfg.ProgressEvery)
	assert.True(t, cfg.RequireAuth)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yml", "concurrency: [1, 2"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"zero value", Config{}, ""},
		{"full", Config{LLMProvider: "openai", SearchProvider: "google", BrowserMode: "never", Port: 9000}, ""},
		{"unknown llm", Config{LLMProvider: "llama"}, "llm_provider"},
		{"unknown research", Config{ResearchProvider: "bing"}, "research_provider"},
		{"unknown search", Config{SearchProvider: "bing"}, "search_provider"},
		{"unknown browser mode", Config{BrowserMode: "sometimes"}, "browser_mode"},
		{"bad log format", Config{LogFormat: "xml"}, "log_format"},
		{"negative concurrency", Config{Concurrency: -1}, "concurrency"},
		{"port out of range", Config{Port: 70000}, "port"},
		{"azure without endpoint", Config{LLMProvider: "azure"}, "azure_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{LLMProvider: "openai", Concurrency: 3}
	merged := cfg.MergeWithDefaults(Config{LLMProvider: "gemini", APIKey: "from-file", Concurrency: 8, Port: 9090})

	assert.Equal(t, "openai", merged.LLMProvider, "set fields win")
	assert.Equal(t, 3, merged.Concurrency)
	assert.Equal(t, "from-file", merged.APIKey, "empty fields come from defaults")
	assert.Equal(t, 9090, merged.Port)

	assert.Equal(t, DefaultSearchProvider, merged.SearchProvider)
	assert.Equal(t, DefaultCountry, merged.Country)
	assert.Equal(t, DefaultGoogleDomain, merged.GoogleDomain)
	assert.Equal(t, DefaultProgressEvery, merged.ProgressEvery)
	assert.Equal(t, DefaultMaxOutputTokens, merged.MaxOutputTokens)
	assert.Equal(t, 45*time.Second, merged.PageTimeout())

	assert.Equal(t, 3, cfg.Concurrency, "receiver is not modified")
	assert.Empty(t, cfg.SearchProvider)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("SERPAPI_API_KEY", "serp-key")
	t.Setenv("CONCURRENCY", "6")
	t.Setenv("PORT", "")

	cfg := Config{Port: 7000, SearchProvider: "serpapi"}
	require.NoError(t, cfg.FromEnv())

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "serp-key", cfg.SerpAPIKey)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, 7000, cfg.Port, "empty env leaves value")
}

func TestFromEnv_InvalidInt(t *testing.T) {
	t.Setenv("CONCURRENCY", "lots")

	var cfg Config
	err := cfg.FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CONCURRENCY")
}
