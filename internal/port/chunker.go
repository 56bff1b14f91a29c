package port

import "docsearch/internal/domain"

type Chunker interface {
	Split(text string) []domain.Chunk
}
