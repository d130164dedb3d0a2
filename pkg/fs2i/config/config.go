// Package config loads fs2i settings from defaults, a YAML file and FS2I_*
// environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/segment"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "FS2I_"

// Embedding providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the complete runtime configuration.
type Config struct {
	Segment   Segment   `yaml:"segment" envPrefix:"SEGMENT_"`
	Language  Language  `yaml:"language" envPrefix:"LANGUAGE_"`
	Stopwords Stopwords `yaml:"stopwords" envPrefix:"STOPWORDS_"`
	Embedding Embedding `yaml:"embedding" envPrefix:"EMBEDDING_"`
	Workers   int       `yaml:"workers" env:"WORKERS"`
	Log       Log       `yaml:"log" envPrefix:"LOG_"`
	Store     Store     `yaml:"store" envPrefix:"STORE_"`
}

// Segment sizes are in bytes.
type Segment struct {
	TargetSize  int    `yaml:"target_size" env:"TARGET_SIZE"`
	Tolerance   int    `yaml:"tolerance" env:"TOLERANCE"`
	Terminators string `yaml:"terminators" env:"TERMINATORS"`
}

type Language struct {
	Threshold float64 `yaml:"threshold" env:"THRESHOLD"`
	Fallback  bool    `yaml:"fallback" env:"FALLBACK"`
}

// Stopwords.Dir holds <code>.yaml files that replace the embedded lists.
type Stopwords struct {
	Dir string `yaml:"dir" env:"DIR"`
}

type Embedding struct {
	Provider string        `yaml:"provider" env:"PROVIDER"`
	BaseURL  string        `yaml:"base_url" env:"BASE_URL"`
	Model    string        `yaml:"model" env:"MODEL"`
	APIKey   string        `yaml:"api_key" env:"API_KEY"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	JSON  bool   `yaml:"json" env:"JSON"`
}

type Store struct {
	Path string `yaml:"path" env:"PATH"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Segment: Segment{
			TargetSize:  segment.DefaultTargetSize,
			Tolerance:   segment.DefaultTolerance,
			Terminators: segment.DefaultTerminators,
		},
		Language: Language{
			Threshold: langid.DefaultThreshold,
			Fallback:  true,
		},
		Embedding: Embedding{
			Provider: ProviderNone,
			Timeout:  60 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// empty) and the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overwrites cfg with any FS2I_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: environment: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// LoadDotenv loads the given .env files into the process environment.
// Missing files are ignored.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if err := c.SegmentConfig().Validate(); err != nil {
		return err
	}
	if c.Language.Threshold < 0 || c.Language.Threshold > 1 {
		return fmt.Errorf("%w: language.threshold must be within [0,1], got %v", internalerr.ErrInvalidConfig, c.Language.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", internalerr.ErrInvalidConfig, c.Workers)
	}
	switch strings.ToLower(c.Embedding.Provider) {
	case "", ProviderNone:
	case ProviderOpenAI:
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("%w: embedding.base_url is required for openai", internalerr.ErrInvalidConfig)
		}
		if c.Embedding.Model == "" {
			return fmt.Errorf("%w: embedding.model is required for openai", internalerr.ErrInvalidConfig)
		}
	case ProviderOllama:
		if c.Embedding.Model == "" {
			return fmt.Errorf("%w: embedding.model is required for ollama", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedding.provider %q", internalerr.ErrInvalidConfig, c.Embedding.Provider)
	}
	if c.Embedding.Timeout < 0 {
		return fmt.Errorf("%w: embedding.timeout must be >= 0", internalerr.ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", internalerr.ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// SegmentConfig converts the segment section.
func (c Config) SegmentConfig() segment.Config {
	return segment.Config{
		TargetSize:  c.Segment.TargetSize,
		Tolerance:   c.Segment.Tolerance,
		Terminators: c.Segment.Terminators,
	}
}
