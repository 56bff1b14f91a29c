package chunker

import (
	"strings"
	"unicode/utf8"

	"docsearch/internal/domain"
)

// DefaultSize is the default chunk size in bytes.
const DefaultSize = 1000

// DefaultOverlap is the default overlap between consecutive chunks.
const DefaultOverlap = 200

// separators is the coarse-to-fine boundary cascade: paragraph break,
// line break, sentence end, word break. An empty match falls through to
// a forced split at a rune boundary.
var separators = []string{"\n\n", "\n", ". ", " "}

// RecursiveChunker splits text into overlapping windows, preferring
// natural boundaries over hard cuts.
type RecursiveChunker struct {
	size    int
	overlap int
}

func NewRecursiveChunker(size, overlap int) *RecursiveChunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &RecursiveChunker{size: size, overlap: overlap}
}

// Split produces an ordered sequence of chunks with byte offsets into
// the original text. Output is fully determined by (text, size, overlap).
func (c *RecursiveChunker) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	var chunks []domain.Chunk
	start := 0
	n := len(text)

	for start < n {
		if n-start <= c.size {
			chunks = append(chunks, domain.Chunk{Text: text[start:], StartOffset: start})
			break
		}

		cut := c.findCut(text, start, start+c.size)
		chunks = append(chunks, domain.Chunk{Text: text[start:cut], StartOffset: start})

		next := cut - c.overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			// Overlap would stall; give up the overlap for this
			// boundary rather than loop.
			next = cut
		}
		start = next
	}

	return chunks
}

// findCut picks the split position for the window [start, end).
// Separator cuts landing in the first half of the window are rejected
// so that degenerate early boundaries do not produce tiny chunks.
func (c *RecursiveChunker) findCut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cut := idx + len(sep)
		if cut > c.size/2 {
			return start + cut
		}
	}

	// No usable separator: force-split, backing off to a rune boundary.
	cut := end
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == start {
		cut = end
	}
	return cut
}
