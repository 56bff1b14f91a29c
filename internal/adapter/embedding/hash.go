package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// HashEmbedder is a deterministic, offline embedder: each token is
// hashed into a dimension of a bag-of-words vector which is then
// unit-normalized. Texts sharing tokens get similar vectors, which is
// enough for local runs and tests. Not a substitute for a real model.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &HashEmbedder{dimension: dimension}
}

func (e *HashEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embed(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) EmbedQuery(text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	v := make([]float32, e.dimension)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		v[int(h.Sum32())%e.dimension]++
	}
	return Normalize(v)
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

func (e *HashEmbedder) ModelName() string {
	return "hash"
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
