// Package config provides configuration loading and structs for the Kotae service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// Backend selection (remote vs local embedding/generation) and the shared
// Gemini credential are resolved once at load time, including environment
// overrides, and injected into components; nothing reads the environment ad hoc.
type Config struct {
	Debug        bool             `yaml:"debug"`
	GeminiAPIKey string           `yaml:"gemini_api_key"`
	Server       ServerConfig     `yaml:"server"`
	Index        IndexConfig      `yaml:"index"`
	Embedding    EmbeddingConfig  `yaml:"embedding"`
	Generation   GenerationConfig `yaml:"generation"`
	Rerank       RerankConfig     `yaml:"rerank"`
	Chunking     ChunkingConfig   `yaml:"chunking"`
	Registry     RegistryConfig   `yaml:"registry"`
	Keyword      KeywordConfig    `yaml:"keyword"`
	Watch        WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// IndexConfig holds the persisted vector index and metadata file paths.
type IndexConfig struct {
	VectorPath   string `yaml:"vector_path"`
	MetadataPath string `yaml:"metadata_path"`
}

// EmbeddingConfig selects and tunes the embedding backend.
// UseRemote plus a credential selects the Gemini API; otherwise the local
// ONNX model at LocalModelPath is used.
type EmbeddingConfig struct {
	UseRemote      bool   `yaml:"use_remote"`
	RemoteModel    string `yaml:"remote_model"`
	LocalModelPath string `yaml:"local_model_path"`
	Dimensions     int    `yaml:"dimensions"`
	MaxTokens      int    `yaml:"max_tokens"`
	CacheSize      int    `yaml:"cache_size"`
}

// GenerationConfig selects and tunes the text-generation backend.
// The local backend is any OpenAI-compatible completion server (e.g. a local
// inference runtime); LocalModel must be set for it to be usable.
type GenerationConfig struct {
	UseRemote     bool   `yaml:"use_remote"`
	RemoteModel   string `yaml:"remote_model"`
	LocalEndpoint string `yaml:"local_endpoint"`
	LocalModel    string `yaml:"local_model"`
	MaxTokens     int    `yaml:"max_tokens"`
}

// RerankConfig tunes the cross-encoder re-ranking model.
// Enabled defaults to true when unset; an absent model simply disables
// re-ranking at runtime (retrieval falls back to distance order).
type RerankConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	ModelPath string `yaml:"model_path"`
	MaxTokens int    `yaml:"max_tokens"`
}

// EnabledOrDefault returns whether re-ranking is enabled; defaults to true when unset.
func (r *RerankConfig) EnabledOrDefault() bool {
	if r.Enabled != nil {
		return *r.Enabled
	}
	return true
}

// ChunkingConfig holds the word-window chunking parameters.
// Overlap must be strictly less than Window.
type ChunkingConfig struct {
	Window  int `yaml:"window"`
	Overlap int `yaml:"overlap"`
}

// RegistryConfig holds the document registry database path.
type RegistryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// KeywordConfig holds the keyword (lexical) index path.
type KeywordConfig struct {
	IndexPath string `yaml:"index_path"`
}

// WatchConfig holds directory auto-ingestion settings.
type WatchConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	expandPaths(&cfg, configDir)
	ApplyEnvOverrides(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists:
// defaults plus environment overrides.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	return &cfg
}

// ApplyEnvOverrides applies recognized environment variables on top of cfg.
// These take precedence over file values so deployments can switch backends
// and artifact locations without editing the config file.
func ApplyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("USE_REMOTE_EMBEDDING"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Embedding.UseRemote = b
		}
	}
	if v, ok := os.LookupEnv("USE_REMOTE_GENERATION"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Generation.UseRemote = b
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("VECTOR_INDEX_PATH"); v != "" {
		cfg.Index.VectorPath = v
	}
	if v := os.Getenv("METADATA_PATH"); v != "" {
		cfg.Index.MetadataPath = v
	}
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Index.VectorPath = expandPath(cfg.Index.VectorPath, configDir)
	cfg.Index.MetadataPath = expandPath(cfg.Index.MetadataPath, configDir)
	cfg.Embedding.LocalModelPath = expandPath(cfg.Embedding.LocalModelPath, configDir)
	cfg.Rerank.ModelPath = expandPath(cfg.Rerank.ModelPath, configDir)
	cfg.Registry.DatabasePath = expandPath(cfg.Registry.DatabasePath, configDir)
	cfg.Keyword.IndexPath = expandPath(cfg.Keyword.IndexPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
