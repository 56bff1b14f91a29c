package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsearch/config"
	"docsearch/internal/adapter/embedding"
	"docsearch/internal/adapter/objectstore"
	"docsearch/internal/adapter/store"
	"docsearch/internal/port"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Ingest documents and query them with hybrid search",
	Long: `docsearch ingests unstructured documents into a hybrid
(lexical + vector) index and answers natural-language queries by
combining vector-similarity and keyword search.

Example usage:
  docsearch ingest report.pdf --source upload
  docsearch query -q "damaged packaging" --source upload
  docsearch documents
  docsearch scan raw-ingestion-zone`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = newLogger(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsearch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newEmbedder builds the configured embedding client.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.BaseURL != "" {
			return embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		}
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newIndexStore opens the bolt-backed hybrid index store.
func newIndexStore(cfg *config.Config) (*store.BoltIndexStore, error) {
	path := cfg.Store.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return store.NewBoltIndexStore(path)
}

// newObjectStore builds the MinIO client from config and environment.
func newObjectStore(cfg *config.Config) (*objectstore.MinioStore, error) {
	accessKey := os.Getenv(cfg.ObjectStore.AccessKeyEnv)
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey := os.Getenv(cfg.ObjectStore.SecretKeyEnv)
	if secretKey == "" {
		secretKey = "minioadmin"
	}
	return objectstore.NewMinioStore(cfg.ObjectStore.Endpoint, accessKey, secretKey, cfg.ObjectStore.UseSSL)
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
