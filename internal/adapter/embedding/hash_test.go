package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_BatchShape(t *testing.T) {
	e := NewHashEmbedder(64)

	texts := []string{"first document", "second document", "third"}
	vectors, err := e.EmbedBatch(texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for _, v := range vectors {
		assert.Len(t, v, 64)
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(64)

	v, err := e.EmbedQuery("the packaging was damaged during transit")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.EmbedQuery("insurance claim processing")
	require.NoError(t, err)
	b, err := e.EmbedQuery("insurance claim processing")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHashEmbedder_TokenOverlapRaisesSimilarity(t *testing.T) {
	e := NewHashEmbedder(64)

	query, err := e.EmbedQuery("damaged packaging")
	require.NoError(t, err)
	related, err := e.EmbedQuery("the packaging arrived damaged")
	require.NoError(t, err)
	unrelated, err := e.EmbedQuery("quarterly revenue projections")
	require.NoError(t, err)

	assert.Greater(t, cosine(query, related), cosine(query, unrelated))
}

func TestHashEmbedder_DefaultDimension(t *testing.T) {
	assert.Equal(t, 384, NewHashEmbedder(0).Dimension())
	assert.Equal(t, 16, NewHashEmbedder(16).Dimension())
	assert.Equal(t, "hash", NewHashEmbedder(16).ModelName())
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestDimensionFor(t *testing.T) {
	assert.Equal(t, 384, dimensionFor("all-MiniLM-L6-v2"))
	assert.Equal(t, 1536, dimensionFor("text-embedding-3-small"))
	assert.Equal(t, 384, dimensionFor("unknown-model"))
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
