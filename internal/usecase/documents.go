package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// DocumentsUseCase lists what has been ingested, grouped per source
// file rather than per chunk.
type DocumentsUseCase struct {
	index port.IndexStore
	log   *slog.Logger
}

func NewDocumentsUseCase(index port.IndexStore, log *slog.Logger) *DocumentsUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentsUseCase{index: index, log: log}
}

// List returns one summary per (source, filename) pair. With an empty
// indexName every documents_* index is inspected. An index that fails
// to read is logged and skipped.
func (u *DocumentsUseCase) List(indexName string) ([]domain.DocumentSummary, error) {
	var indexes []string
	if indexName != "" {
		indexes = []string{indexName}
	} else {
		var err error
		indexes, err = u.index.ListIndexes(domain.IndexPrefix + "*")
		if err != nil {
			return nil, fmt.Errorf("list indexes: %w", err)
		}
	}

	var summaries []domain.DocumentSummary
	for _, idx := range indexes {
		hits, err := u.index.GetAll(idx)
		if err != nil {
			u.log.Error("failed to read index", "index", idx, "error", err)
			continue
		}

		byFile := make(map[string]*domain.DocumentSummary)
		var order []string
		for _, hit := range hits {
			fileKey := hit.Metadata.Source + "/" + hit.Metadata.Filename
			if s, ok := byFile[fileKey]; ok {
				s.ChunkCount++
				continue
			}

			id := hit.ID
			if prefix, _, ok := strings.Cut(hit.ID, "_"); ok {
				id = prefix
			}
			byFile[fileKey] = &domain.DocumentSummary{
				ID:          id,
				Filename:    hit.Metadata.Filename,
				Source:      hit.Metadata.Source,
				Description: hit.Metadata.Description,
				Index:       idx,
				ChunkCount:  1,
			}
			order = append(order, fileKey)
		}

		for _, key := range order {
			summaries = append(summaries, *byFile[key])
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Index != summaries[j].Index {
			return summaries[i].Index < summaries[j].Index
		}
		return summaries[i].Filename < summaries[j].Filename
	})
	return summaries, nil
}
