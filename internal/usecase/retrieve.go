package usecase

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// DefaultTopK bounds the result count when the caller does not.
const DefaultTopK = 5

// Rerank weights. Keyword-path scores carry an extra attenuation so the
// merged ranking leans toward semantic matches.
const (
	semanticWeight     = 0.6
	lexicalWeight      = 0.3
	lengthWeight       = 0.1
	keywordAttenuation = 0.7
)

// vectorMaxScore is the raw ceiling of the vector path: cosine
// similarity plus the 1.0 bias.
const vectorMaxScore = 2.0

// RetrieveUseCase runs hybrid retrieval: embed the query, search both
// paths, normalize, merge, dedup, rerank, truncate.
type RetrieveUseCase struct {
	embedder port.Embedder
	index    port.IndexStore
	log      *slog.Logger
}

func NewRetrieveUseCase(embedder port.Embedder, index port.IndexStore, log *slog.Logger) *RetrieveUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &RetrieveUseCase{
		embedder: embedder,
		index:    index,
		log:      log,
	}
}

// candidate carries a merged result through dedup and reranking. The
// raw and rerank diagnostics stay internal; only the final score is
// exposed.
type candidate struct {
	content    string
	metadata   domain.Metadata
	score      float64 // normalized to [0,10]
	searchType string
	rerank     float64
}

// Retrieve answers one query against one index. A single failing search
// path degrades to the other; both failing is fatal.
func (u *RetrieveUseCase) Retrieve(query, indexName string, topK int) (*domain.RetrievalResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVector, err := u.embedder.EmbedQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrEmbedding, err)
	}

	// Vector path: raw scores live in [0,2], normalized to [0,10].
	var vectorDocs []candidate
	vectorFailed := false
	vectorHits, err := u.index.SearchVector(indexName, queryVector, topK*2)
	if err != nil {
		u.log.Warn("vector search failed", "index", indexName, "error", err)
		vectorFailed = true
	} else {
		for _, h := range vectorHits {
			vectorDocs = append(vectorDocs, candidate{
				content:    h.Content,
				metadata:   h.Metadata,
				score:      h.Score / vectorMaxScore * 10,
				searchType: domain.SearchTypeSemantic,
			})
		}
	}

	// Keyword path: raw scores are unbounded, normalized against the
	// batch's own maximum.
	var keywordDocs []candidate
	keywordFailed := false
	keywordHits, err := u.index.SearchKeyword(indexName, query, topK*2)
	if err != nil {
		u.log.Warn("keyword search failed", "index", indexName, "error", err)
		keywordFailed = true
	} else {
		maxScore := 1.0
		if len(keywordHits) > 0 {
			batchMax := keywordHits[0].Score
			for _, h := range keywordHits {
				if h.Score > batchMax {
					batchMax = h.Score
				}
			}
			if batchMax > 0 {
				maxScore = batchMax
			}
		}
		for _, h := range keywordHits {
			keywordDocs = append(keywordDocs, candidate{
				content:    h.Content,
				metadata:   h.Metadata,
				score:      h.Score / maxScore * 10,
				searchType: domain.SearchTypeKeyword,
			})
		}
	}

	if vectorFailed && keywordFailed {
		return nil, fmt.Errorf("%w: index %s", domain.ErrTotalSearchFailure, indexName)
	}

	// Merge vector-first so vector results win dedup ties, then rerank.
	merged := dedup(append(vectorDocs, keywordDocs...))

	queryWords := wordSet(query)
	for i := range merged {
		merged[i].rerank = rerankScore(merged[i].score, merged[i].searchType, queryWords, merged[i].content)
	}

	// Stable: candidates with equal scores keep merge order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].rerank > merged[j].rerank
	})

	if len(merged) > topK {
		merged = merged[:topK]
	}

	results := make([]domain.ScoredResult, len(merged))
	for i, c := range merged {
		results[i] = domain.ScoredResult{
			Content:    c.content,
			Metadata:   c.metadata,
			Score:      c.rerank,
			SearchType: c.searchType,
		}
	}

	return &domain.RetrievalResult{
		Query:       query,
		Index:       indexName,
		ResultCount: len(results),
		Results:     results,
	}, nil
}

// dedup collapses candidates with byte-identical content, keeping the
// first occurrence. The SHA-256 fingerprint makes the comparison
// independent of any runtime hash function.
func dedup(candidates []candidate) []candidate {
	seen := make(map[[sha256.Size]byte]struct{}, len(candidates))
	unique := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		fp := sha256.Sum256([]byte(c.content))
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// rerankScore blends the normalized path score with lexical coverage
// and a content-length factor.
func rerankScore(score float64, searchType string, queryWords map[string]struct{}, content string) float64 {
	coverage := queryCoverage(queryWords, content)
	lengthFactor := math.Min(1.0, float64(len(content))/1000.0)

	weight := semanticWeight
	if searchType == domain.SearchTypeKeyword {
		weight = semanticWeight * keywordAttenuation
	}

	return weight*score + lexicalWeight*coverage*10 + lengthWeight*lengthFactor*10
}

// queryCoverage is the fraction of query words present in the content,
// case-insensitive over whitespace tokens. Zero for an empty query.
func queryCoverage(queryWords map[string]struct{}, content string) float64 {
	if len(queryWords) == 0 {
		return 0
	}
	contentWords := wordSet(content)
	overlap := 0
	for w := range queryWords {
		if _, ok := contentWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(queryWords))
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
