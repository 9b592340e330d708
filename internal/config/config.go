// Package config provides configuration management for repotext.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for repotext.
type Config struct {
	Flatten    FlattenConfig    `yaml:"flatten"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
}

// FlattenConfig configures the repository flattener.
type FlattenConfig struct {
	// Root is the directory tree to flatten.
	Root string `yaml:"root"`
	// Output is the aggregate text file, truncated and rewritten on every run.
	Output string `yaml:"output"`
	// Exclude lists file names skipped during traversal. Matched by exact
	// base name at any depth, never by path.
	Exclude []string `yaml:"exclude"`
	// RemoveText is a literal string deleted from the aggregate after
	// flattening, typically a license header. Empty means no removal.
	RemoveText string `yaml:"remove_text"`
	// NormalizeWhitespace strips each line of the aggregate after removal.
	NormalizeWhitespace bool `yaml:"normalize_whitespace"`
}

// ChunkingConfig configures how the aggregate is split for embedding.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	OllamaURL     string `yaml:"ollama_url"`
	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Flatten: FlattenConfig{
			Root:    ".",
			Output:  "output.txt",
			Exclude: []string{".DS_Store"},
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "openai",
			Model:     "text-embedding-ada-002",
			OllamaURL: "http://localhost:11434",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Flatten.Root == "" {
		return errors.New("flatten.root must not be empty")
	}
	if c.Flatten.Output == "" {
		return errors.New("flatten.output must not be empty")
	}
	if c.Chunking.Size < 1 {
		return errors.New("chunking.size must be at least 1")
	}
	if c.Chunking.Overlap < 0 {
		return errors.New("chunking.overlap must not be negative")
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return errors.New("chunking.overlap must be smaller than chunking.size")
	}
	if c.Embeddings.Provider != "openai" && c.Embeddings.Provider != "ollama" {
		return errors.New("embeddings.provider must be 'openai' or 'ollama'")
	}
	return nil
}

// Load loads configuration from the YAML file, falling back to defaults
// for any missing values.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Use defaults if we can't find config dir
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from the given YAML file, falling back to
// defaults for any missing values. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the YAML file.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ConfigDir returns the directory where config files are stored.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "repotext"), nil
}

// ConfigPath returns the path to the main config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
