package domain

import "errors"

// Error taxonomy. Callers discriminate with errors.Is; everything else
// in the pipeline wraps one of these sentinels.
var (
	// ErrUnsupportedFileType is returned when no loader handles the
	// file extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrIndexCreation is returned when an index could not be created.
	ErrIndexCreation = errors.New("index creation failed")

	// ErrEmbedding is returned when the embedding capability fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStoreWrite is returned when writing records to the index
	// store fails.
	ErrStoreWrite = errors.New("store write failed")

	// ErrTotalSearchFailure is returned when both search paths of a
	// retrieval fail. A single failing path is recovered, not surfaced.
	ErrTotalSearchFailure = errors.New("all search paths failed")

	// ErrObjectStore is returned when the object storage capability
	// fails.
	ErrObjectStore = errors.New("object store operation failed")
)
