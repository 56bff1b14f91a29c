package cli

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docsearch/internal/adapter/chunker"
	"docsearch/internal/adapter/loader"
	"docsearch/internal/usecase"
)

var (
	ingestSource      string
	ingestDescription string
	ingestFilename    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a document into the hybrid index",
	Long: `Ingest a document: extract its text, split it into overlapping
chunks, embed each chunk and write text + vector into the index named
after the source. The original bytes are stored in the raw-ingestion
zone of the object store.

Examples:
  docsearch ingest report.txt
  docsearch ingest claims.csv --source claims --description "Q3 claims"`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "upload", "source label; determines the target index")
	ingestCmd.Flags().StringVar(&ingestDescription, "description", "", "optional document description")
	ingestCmd.Flags().StringVar(&ingestFilename, "filename", "", "original filename override (for temp files)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

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

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	ingestUC.SetProgress(func(processed, total int) {
		barMu.Lock()
		defer barMu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Indexing"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	})

	result, err := ingestUC.Ingest(usecase.IngestRequest{
		FilePath:         path,
		Source:           ingestSource,
		Description:      ingestDescription,
		OriginalFilename: ingestFilename,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("Indexed %d chunks from %s into %s\n", result.IndexedChunks, result.Filename, result.IndexName)
	return nil
}
