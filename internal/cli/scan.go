package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/adapter/chunker"
	"docsearch/internal/adapter/loader"
	"docsearch/internal/usecase"
)

var (
	scanPrefix  string
	scanPattern string
)

var scanCmd = &cobra.Command{
	Use:   "scan <bucket>",
	Short: "Ingest every document in an object storage bucket",
	Long: `Scan a bucket and ingest each object under the prefix.
Per-object failures are reported but do not stop the scan.

Examples:
  docsearch scan raw-ingestion-zone
  docsearch scan landing --prefix incoming/ --pattern "**/*.pdf"`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanPrefix, "prefix", "documents/", "object key prefix to scan")
	scanCmd.Flags().StringVar(&scanPattern, "pattern", "", "glob pattern filter on object keys")
}

func runScan(cmd *cobra.Command, args []string) error {
	bucket := args[0]
	cfg := GetConfig()

	st, err := newIndexStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	objects, err := newObjectStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to create object store client: %w", err)
	}

	ingestUC := usecase.NewIngestUseCase(
		loader.NewRegistry(),
		chunker.NewRecursiveChunker(cfg.Chunking.Size, cfg.Chunking.Overlap),
		emb,
		st,
		objects,
		cfg.Ingest.BatchSize,
		cfg.ObjectStore.RawZone,
		cfg.Ingest.TempDir,
		logger,
	)

	fmt.Printf("Scanning %s/%s...\n", bucket, scanPrefix)

	entries, err := ingestUC.ScanBucket(bucket, scanPrefix, scanPattern)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No objects found.")
		return nil
	}

	failed := 0
	for _, entry := range entries {
		if entry.Err != nil {
			failed++
		}
	}

	fmt.Printf("Processed %d objects, %d failed\n", len(entries), failed)
	for _, entry := range entries {
		if entry.Err != nil {
			fmt.Printf("  FAILED %s: %v\n", entry.Key, entry.Err)
		}
	}
	return nil
}
