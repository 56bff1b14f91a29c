package store

import (
	"math"
	"strings"
	"unicode"

	"docsearch/internal/domain"
)

// BM25 parameters, standard defaults.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// KeywordScores computes BM25 scores for every record matching at least
// one query term. Document frequencies and average length come from the
// records themselves, so scores are relative to the index snapshot.
func KeywordScores(records map[string]domain.Record, query string) map[string]float64 {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || len(records) == 0 {
		return nil
	}

	tokens := make(map[string][]string, len(records))
	totalLen := 0
	for id, rec := range records {
		t := Tokenize(rec.Content)
		tokens[id] = t
		totalLen += len(t)
	}
	avgDl := float64(totalLen) / float64(len(records))
	if avgDl == 0 {
		return nil
	}
	n := float64(len(records))

	// Document frequency per query term.
	df := make(map[string]float64, len(queryTokens))
	for _, term := range queryTokens {
		if _, done := df[term]; done {
			continue
		}
		for _, t := range tokens {
			for _, tok := range t {
				if tok == term {
					df[term]++
					break
				}
			}
		}
	}

	scores := make(map[string]float64)
	for id, t := range tokens {
		tf := make(map[string]int, len(t))
		for _, tok := range t {
			tf[tok]++
		}

		dl := float64(len(t))
		score := 0.0
		for _, term := range queryTokens {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			idf := math.Log((n-df[term]+0.5)/(df[term]+0.5) + 1)
			score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*dl/avgDl))
		}
		if score > 0 {
			scores[id] = score
		}
	}

	return scores
}

// Tokenize lower-cases and splits on non-alphanumeric runes. No
// stemming: keyword scores feed a normalization step that expects raw
// lexical match strength.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// CosineSimilarity computes normalized dot-product similarity.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
