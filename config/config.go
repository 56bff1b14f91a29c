package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the docsearch tool.
type Config struct {
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Store       StoreConfig       `yaml:"store"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Retrieve    RetrieveConfig    `yaml:"retrieve"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ChunkingConfig holds text splitting configuration.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "hash"
	Model     string `yaml:"model"`       // e.g. "all-MiniLM-L6-v2"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
}

// StoreConfig holds index store configuration.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ObjectStoreConfig holds object storage configuration.
type ObjectStoreConfig struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKeyEnv string `yaml:"access_key_env"`
	SecretKeyEnv string `yaml:"secret_key_env"`
	UseSSL       bool   `yaml:"use_ssl"`
	RawZone      string `yaml:"raw_zone"` // bucket for original document bytes
}

// IngestConfig holds ingestion pipeline configuration.
type IngestConfig struct {
	BatchSize int    `yaml:"batch_size"`
	TempDir   string `yaml:"temp_dir"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Embedding: EmbeddingConfig{
			Provider:  "hash",
			Model:     "all-MiniLM-L6-v2",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
		},
		Store: StoreConfig{
			Path: filepath.Join(".docsearch", "index.db"),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:     "localhost:9000",
			AccessKeyEnv: "MINIO_ACCESS_KEY",
			SecretKeyEnv: "MINIO_SECRET_KEY",
			UseSSL:       false,
			RawZone:      "raw-ingestion-zone",
		},
		Ingest: IngestConfig{
			BatchSize: 50,
			TempDir:   filepath.Join(os.TempDir(), "docsearch"),
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// The file must exist; discovery with fallback lives in LoadFromDir.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// docsearch.yaml, then .docsearch/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docsearch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docsearch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
