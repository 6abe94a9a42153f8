// Package config loads quesans settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	LLM      LLMConfig      `koanf:"llm"`
	Retry    RetryConfig    `koanf:"retry"`
	Eval     EvalConfig     `koanf:"eval"`
	Store    StoreConfig    `koanf:"store"`
	Vector   VectorConfig   `koanf:"vector"`
	Log      LogConfig      `koanf:"log"`
	Document DocumentConfig `koanf:"document"`
}

type ServerConfig struct {
	Address           string        `koanf:"address"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	// WriteTimeout bounds a whole /evaluate response, which grades every pair.
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LLMConfig selects the scoring backend.
type LLMConfig struct {
	Provider string        `koanf:"provider"` // "ollama" or "gemini"
	URL      string        `koanf:"url"`      // Ollama base URL, e.g. "http://localhost:11434"
	Model    string        `koanf:"model"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	Delay       time.Duration `koanf:"delay"`
}

type EvalConfig struct {
	Workers   int     `koanf:"workers"`
	RateLimit float64 `koanf:"rate_limit"` // requests per second, 0 disables
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type VectorConfig struct {
	Path           string `koanf:"path"`
	Collection     string `koanf:"collection"`
	EmbeddingModel string `koanf:"embedding_model"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type DocumentConfig struct {
	Path string `koanf:"path"`
}

// sections are the top-level keys that environment variables may set.
var sections = map[string]bool{
	"server": true, "llm": true, "retry": true, "eval": true,
	"store": true, "vector": true, "log": true, "document": true,
}

// Load reads configuration. Precedence, highest first: environment
// (including a .env file in the working directory), the YAML file at
// configPath, defaults. An explicit zero in a higher layer is kept. An empty configPath falls back to QUESANS_CONFIG;
// when neither is set no file is read.
//
// Environment variables map on their first underscore:
//
//	LLM_MODEL             -> llm.model
//	SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("QUESANS_CONFIG")
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps SECTION_FIELD_NAME to section.field_name. Variables outside
// the known sections are ignored.
func envKey(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 || !sections[parts[0]] {
		return ""
	}
	return parts[0] + "." + parts[1]
}

// defaults is the lowest configuration layer. Values set by the file or the
// environment replace these even when they are zero.
func defaults() map[string]any {
	return map[string]any{
		"server.address":             ":8080",
		"server.shutdown_timeout":    "10s",
		"server.read_timeout":        "15s",
		"server.read_header_timeout": "5s",
		"server.write_timeout":       "10m",
		"server.idle_timeout":        "60s",
		"llm.provider":               ProviderOllama,
		"llm.url":                    "http://localhost:11434",
		"llm.model":                  "llama3:latest",
		"llm.timeout":                "60s",
		"retry.max_attempts":         3,
		"retry.delay":                "2s",
		"eval.workers":               1,
		"eval.rate_limit":            0,
		"store.path":                 "quesans.db",
		"vector.path":                "./chroma_db",
		"vector.collection":          "answers",
		"vector.embedding_model":     "llama3",
		"log.level":                  "info",
		"log.format":                 "json",
		"document.path":              "quesans.pdf",
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case ProviderOllama:
		if c.LLM.URL == "" {
			errs = append(errs, errors.New("llm.url is required for ollama"))
		}
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("llm.api_key is required for gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOllama, ProviderGemini, c.LLM.Provider))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, errors.New("retry.delay must not be negative"))
	}
	if c.Eval.Workers < 1 {
		errs = append(errs, fmt.Errorf("eval.workers must be at least 1, got %d", c.Eval.Workers))
	}
	if c.Eval.RateLimit < 0 {
		errs = append(errs, errors.New("eval.rate_limit must not be negative"))
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.read_header_timeout", c.Server.ReadHeaderTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout},
	} {
		if d.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", d.name))
		}
	}

	return errors.Join(errs...)
}
