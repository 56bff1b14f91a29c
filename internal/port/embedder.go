package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// EmbedBatch generates embeddings for the given texts.
	// Returns one unit-normalized vector per input text.
	EmbedBatch(texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query string.
	EmbedQuery(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
