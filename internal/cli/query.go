package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/domain"
	"docsearch/internal/usecase"
)

var (
	queryText   string
	queryIndex  string
	querySource string
	queryTopK   int
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search ingested documents",
	Long: `Search one document index with hybrid retrieval: vector
similarity and keyword matching, merged, deduplicated and reranked.

Examples:
  docsearch query -q "damaged packaging"
  docsearch query -q "delivery delays" --source claims --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVar(&queryIndex, "index", "", "index name (overrides --source)")
	queryCmd.Flags().StringVarP(&querySource, "source", "s", "upload", "source label; selects the index to search")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	retrieveUC := usecase.NewRetrieveUseCase(emb, st, logger)

	indexName := queryIndex
	if indexName == "" {
		indexName = domain.IndexNameFor(querySource)
	}

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	result, err := retrieveUC.Retrieve(queryText, indexName, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if result.ResultCount == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", result.ResultCount, result.Query)
	for i, r := range result.Results {
		fmt.Printf("--- [%d] %s (%s, score: %.2f) ---\n", i+1, r.Metadata.Filename, r.SearchType, r.Score)
		text := r.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
