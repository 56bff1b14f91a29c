package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/usecase"
)

var (
	documentsIndex string
	documentsJSON  bool
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List ingested documents",
	Long: `List ingested documents grouped per source file, with the
index each one lives in and its chunk count.

Examples:
  docsearch documents
  docsearch documents --index documents_upload --json`,
	RunE: runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.Flags().StringVar(&documentsIndex, "index", "", "restrict to one index")
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
}

func runDocuments(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := newIndexStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	docs, err := usecase.NewDocumentsUseCase(st, logger).List(documentsIndex)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		output, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No documents ingested.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%-30s %-20s %4d chunks  %s\n", doc.Filename, doc.Source, doc.ChunkCount, doc.Index)
	}
	return nil
}
