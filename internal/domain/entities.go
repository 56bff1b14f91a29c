package domain

import "strings"

// Metadata is the fixed per-chunk metadata record. Description may be
// empty; Source and Filename are always set at ingestion time.
type Metadata struct {
	Source      string `json:"source"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
}

// Chunk is a bounded, possibly overlapping substring of a document. It
// lives only between chunking and indexing.
type Chunk struct {
	Text        string
	StartOffset int
	Metadata    Metadata
}

// Record is the persisted unit in an index: the chunk text, its
// metadata and its embedding vector.
type Record struct {
	Content  string    `json:"content"`
	Metadata Metadata  `json:"metadata"`
	Vector   []float32 `json:"vector"`
}

// Hit is a raw search result from one index-store query path.
type Hit struct {
	ID       string
	Content  string
	Metadata Metadata
	Score    float64
}

// IndexMapping declares the schema of an index: a text content field,
// an opaque metadata field and a dense vector field of Dims dimensions.
type IndexMapping struct {
	Dims       int    `json:"dims"`
	Similarity string `json:"similarity"`
}

// Search type tags on retrieval results.
const (
	SearchTypeSemantic = "semantic"
	SearchTypeKeyword  = "keyword"
)

// ScoredResult is one retrieval result after reranking. Score is the
// final rerank score; internal diagnostics are not exposed.
type ScoredResult struct {
	Content    string   `json:"content"`
	Metadata   Metadata `json:"metadata"`
	Score      float64  `json:"score"`
	SearchType string   `json:"search_type"`
}

// RetrievalResult is the payload returned for one query.
type RetrievalResult struct {
	Query       string         `json:"query"`
	Index       string         `json:"index"`
	ResultCount int            `json:"result_count"`
	Results     []ScoredResult `json:"results"`
}

// IngestResult is the payload returned for one ingested document.
type IngestResult struct {
	Status        string `json:"status"`
	IndexedChunks int    `json:"indexed_chunks"`
	IndexName     string `json:"index_name"`
	Filename      string `json:"filename"`
}

// DocumentSummary describes one ingested file, aggregated over its
// chunks.
type DocumentSummary struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Source      string `json:"source"`
	Description string `json:"description"`
	Index       string `json:"index"`
	ChunkCount  int    `json:"chunk_count"`
}

// IndexPrefix is the naming prefix shared by all document indexes.
const IndexPrefix = "documents_"

// Slug normalizes a source label into an index-safe string: lower-cased
// with path separators and spaces replaced by underscores. Distinct
// sources can slug to the same value and will then share an index.
func Slug(source string) string {
	s := strings.ReplaceAll(source, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}

// IndexNameFor returns the index name for a source label.
func IndexNameFor(source string) string {
	return IndexPrefix + Slug(source)
}

// SanitizeID makes a filename safe for use as a record ID prefix.
func SanitizeID(filename string) string {
	return strings.ReplaceAll(filename, ".", "_")
}
