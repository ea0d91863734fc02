package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfigFile(t, "app:\n  logLevel: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "prose", cfg.NLP.Provider)
	assert.Equal(t, 4, cfg.Scoring.Concurrency)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxFileSize)
	assert.Equal(t, "resume.analysis", cfg.Worker.Queue)
	assert.Equal(t, time.Second, cfg.Watch.DebounceDelay)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
scoring:
  catalogFile: /opt/careernav/catalog.yaml
  concurrency: 8
nlp:
  provider: gemini
  model: gemini-2.5-flash
  timeout: 5s
server:
  port: "9000"
  apiKeys: [alpha, beta]
watch:
  format: markdown
`)
	t.Setenv("CAREERNAV_SERVER_HOST", "0.0.0.0")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/careernav/catalog.yaml", cfg.Scoring.CatalogFile)
	assert.Equal(t, 8, cfg.Scoring.Concurrency)
	assert.Equal(t, "gemini", cfg.NLP.Provider)
	assert.Equal(t, 5*time.Second, cfg.NLP.Timeout)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "markdown", cfg.OutputFormat())
}

func TestLoadConfigFileRejectsInvalid(t *testing.T) {
	_, err := LoadConfigFile(writeConfigFile(t, "nlp:\n  provider: spacy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid nlp provider")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Scoring: ScoringConfig{Concurrency: 2},
			NLP:     NLPConfig{Provider: "none"},
			Server:  ServerConfig{Port: "8000", TLS: TLSConfig{Mode: "disabled"}},
			App: AppConfig{
				DefaultFormat:    "json",
				SupportedFormats: []string{"json", "text", "markdown"},
				MaxFileSize:      1024,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "prose provider", mutate: func(c *Config) { c.NLP.Provider = "prose" }},
		{
			name:    "gemini without timeout",
			mutate:  func(c *Config) { c.NLP.Provider = "gemini"; c.NLP.Model = "m" },
			wantErr: "nlp timeout must be positive",
		},
		{
			name: "gemini without model",
			mutate: func(c *Config) {
				c.NLP.Provider = "gemini"
				c.NLP.Timeout = time.Second
			},
			wantErr: "nlp model is required",
		},
		{name: "unknown provider", mutate: func(c *Config) { c.NLP.Provider = "spacy" }, wantErr: "invalid nlp provider"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Scoring.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port is required"},
		{name: "zero file size", mutate: func(c *Config) { c.App.MaxFileSize = 0 }, wantErr: "max file size"},
		{name: "bad default format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: "invalid default format"},
		{name: "bad watch format", mutate: func(c *Config) { c.Watch.Format = "yaml" }, wantErr: "invalid watch format"},
		{
			name:    "tls without cert",
			mutate:  func(c *Config) { c.Server.TLS.Mode = "server" },
			wantErr: "TLS certificate and key are required",
		},
		{
			name: "tls with file and content",
			mutate: func(c *Config) {
				c.Server.TLS = TLSConfig{Mode: "server", CertFile: "a", CertContent: "b", KeyFile: "k"}
			},
			wantErr: "cannot specify both certFile and certContent",
		},
		{
			name: "tls bad version",
			mutate: func(c *Config) {
				c.Server.TLS = TLSConfig{Mode: "server", CertFile: "a", KeyFile: "k", MinVersion: "1.1"}
			},
			wantErr: "invalid TLS minVersion",
		},
		{name: "tls unknown mode", mutate: func(c *Config) { c.Server.TLS.Mode = "mutual" }, wantErr: "invalid TLS mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("CAREERNAV_SERVER_APIKEYS", " one, two ,,three ")
	t.Setenv("GEMINI_API_KEY", "gemini-from-env")

	cfg := &Config{
		App:           AppConfig{LogLevel: "debug"},
		Observability: ObservabilityConfig{ServiceName: "careernav"},
	}
	cfg.applyFallbacks()

	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
	assert.Equal(t, "gemini-from-env", cfg.NLP.APIKey)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.True(t, cfg.Observability.ConsoleOutput)
	assert.Contains(t, cfg.Observability.ServiceInstance, "careernav-")
}

func TestApplyFallbacksKeepsConfiguredValues(t *testing.T) {
	t.Setenv("CAREERNAV_SERVER_APIKEYS", "from-env")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := &Config{
		NLP:    NLPConfig{APIKey: "from-file"},
		Server: ServerConfig{APIKeys: []string{"from-file"}, TLS: TLSConfig{Mode: "server"}},
	}
	cfg.applyFallbacks()

	assert.Equal(t, []string{"from-file"}, cfg.Server.APIKeys)
	assert.Equal(t, "from-file", cfg.NLP.APIKey)
	assert.Equal(t, "1.2", cfg.Server.TLS.MinVersion)
}

func TestOutputFormatFallsBackToDefault(t *testing.T) {
	cfg := &Config{App: AppConfig{DefaultFormat: "text"}}
	assert.Equal(t, "text", cfg.OutputFormat())
}
