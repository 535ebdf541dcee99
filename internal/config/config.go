// Package config provides configuration loading and structs for HireFlow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Chat      ChatConfig      `yaml:"chat"`
	LLM       LLMConfig       `yaml:"llm"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and indices.
type StorageConfig struct {
	DatabasePath     string `yaml:"database_path"`
	VectorIndexPath  string `yaml:"vector_index_path"`
	KeywordIndexPath string `yaml:"keyword_index_path"`
}

// EmbeddingConfig holds embedder settings. Provider selects the backend:
// "hash" (deterministic, no model), "onnx" (local MiniLM, requires CGO),
// or "gemini" (remote embedContent API).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	ModelName  string `yaml:"model_name"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
	APIKeyEnv  string `yaml:"api_key_env"`
}

// SearchConfig holds retrieval, chunking, and re-ranking settings.
// BoostPerMatch and BoostCap are the keyword-boost policy constants:
// each literal boost-term occurrence adds BoostPerMatch to the score
// multiplier, capped at BoostCap.
type SearchConfig struct {
	TopKCandidates      int     `yaml:"top_k_candidates"`
	TopN                int     `yaml:"top_n"`
	MaxLimit            int     `yaml:"max_limit"`
	ChunkSize           int     `yaml:"chunk_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap"`
	BoostPerMatch       float64 `yaml:"boost_per_match"`
	BoostCap            float64 `yaml:"boost_cap"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// ChatConfig holds conversation session settings.
type ChatConfig struct {
	TokenBudget           int `yaml:"token_budget"`
	EvaluationTokenBudget int `yaml:"evaluation_token_budget"`
	HistoryTurns          int `yaml:"history_turns"`
	ContextTopK           int `yaml:"context_top_k"`
}

// LLMConfig holds generator (LLM) settings.
type LLMConfig struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WatchConfig holds resume directory watch settings.
type WatchConfig struct {
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

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
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
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Storage.KeywordIndexPath = expandPath(cfg.Storage.KeywordIndexPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
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
