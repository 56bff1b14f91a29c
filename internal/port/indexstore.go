package port

import "docsearch/internal/domain"

// IndexStore is a hybrid store over named indexes: per-record text,
// metadata and dense vector, with both lexical and vector-similarity
// query shapes.
type IndexStore interface {
	// EnsureIndex creates the named index with the given mapping if it
	// does not exist. An existing index is left untouched, whatever its
	// mapping.
	EnsureIndex(name string, mapping domain.IndexMapping) error

	// Put upserts a record keyed by id. The record is durable
	// immediately but only becomes searchable after Refresh.
	Put(index, id string, rec domain.Record) error

	// Refresh makes all prior Puts on the index visible to searches
	// issued after it returns.
	Refresh(index string) error

	// SearchVector returns up to k records scored by cosine similarity
	// against the query vector, biased to the [0,2] range.
	SearchVector(index string, vector []float32, k int) ([]domain.Hit, error)

	// SearchKeyword returns up to k records scored by lexical match of
	// the query text against record content.
	SearchKeyword(index, query string, k int) ([]domain.Hit, error)

	// ListIndexes returns index names matching a glob pattern.
	ListIndexes(pattern string) ([]string, error)

	// GetAll returns every visible record in the index.
	GetAll(index string) ([]domain.Hit, error)

	Close() error
}
