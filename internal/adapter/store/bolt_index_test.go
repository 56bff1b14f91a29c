package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/domain"
)

func newTestStore(t *testing.T) (*BoltIndexStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := NewBoltIndexStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func mapping(dims int) domain.IndexMapping {
	return domain.IndexMapping{Dims: dims, Similarity: "cosine"}
}

func record(content string, vector ...float32) domain.Record {
	return domain.Record{
		Content:  content,
		Metadata: domain.Metadata{Source: "upload", Filename: "doc.txt"},
		Vector:   vector,
	}
}

func TestEnsureIndex_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	// Second call with a different mapping must not touch the first.
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(8)))

	err := s.Put("documents_upload", "doc_txt_0", record("text", 1, 0))
	assert.NoError(t, err, "original 2-dim mapping should still be in effect")
}

func TestPut_RequiresIndex(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Put("documents_missing", "id", record("text", 1, 0))
	assert.Error(t, err)
}

func TestPut_DimensionMismatch(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))

	err := s.Put("documents_upload", "doc_txt_0", record("text", 1, 0, 0))
	assert.ErrorContains(t, err, "dimension mismatch")
}

func TestPut_VisibleOnlyAfterRefresh(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "doc_txt_0", record("insurance claim", 1, 0)))

	hits, err := s.SearchKeyword("documents_upload", "insurance", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "pending writes must not be searchable")

	all, err := s.GetAll("documents_upload")
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Refresh("documents_upload"))

	hits, err = s.SearchKeyword("documents_upload", "insurance", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc_txt_0", hits[0].ID)
}

func TestPut_UpsertKeepsCount(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))

	require.NoError(t, s.Put("documents_upload", "doc_txt_0", record("version one", 1, 0)))
	require.NoError(t, s.Refresh("documents_upload"))
	require.NoError(t, s.Put("documents_upload", "doc_txt_0", record("version two", 0, 1)))
	require.NoError(t, s.Refresh("documents_upload"))

	all, err := s.GetAll("documents_upload")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "version two", all[0].Content)
}

func TestSearchVector_Ranking(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "aligned", record("aligned", 1, 0)))
	require.NoError(t, s.Put("documents_upload", "orthogonal", record("orthogonal", 0, 1)))
	require.NoError(t, s.Refresh("documents_upload"))

	hits, err := s.SearchVector("documents_upload", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "aligned", hits[0].ID)
	assert.InDelta(t, 2.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 1.0, hits[1].Score, 1e-6)
}

func TestSearchVector_QueryDimensionMismatch(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))

	_, err := s.SearchVector("documents_upload", []float32{1, 0, 0}, 10)
	assert.ErrorContains(t, err, "dimension mismatch")
}

func TestSearchKeyword_MatchesOnly(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "a", record("the insurance claim was denied", 1, 0)))
	require.NoError(t, s.Put("documents_upload", "b", record("the weather was sunny all week", 0, 1)))
	require.NoError(t, s.Refresh("documents_upload"))

	hits, err := s.SearchKeyword("documents_upload", "insurance claim", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestSearchKeyword_Truncation(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "a", record("claim filed in march", 1, 0)))
	require.NoError(t, s.Put("documents_upload", "b", record("claim filed in april", 0, 1)))
	require.NoError(t, s.Put("documents_upload", "c", record("claim filed in may", 1, 0)))
	require.NoError(t, s.Refresh("documents_upload"))

	hits, err := s.SearchKeyword("documents_upload", "claim", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchKeyword_TieBreaksByID(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "b", record("identical claim text", 0, 1)))
	require.NoError(t, s.Put("documents_upload", "a", record("identical claim text", 1, 0)))
	require.NoError(t, s.Refresh("documents_upload"))

	hits, err := s.SearchKeyword("documents_upload", "claim", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
}

func TestListIndexes_Pattern(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.EnsureIndex("documents_claims", mapping(2)))
	require.NoError(t, s.EnsureIndex("scratch", mapping(2)))

	names, err := s.ListIndexes("documents_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"documents_claims", "documents_upload"}, names)
}

func TestGetAll_SortedByID(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "doc_txt_1", record("second", 0, 1)))
	require.NoError(t, s.Put("documents_upload", "doc_txt_0", record("first", 1, 0)))
	require.NoError(t, s.Refresh("documents_upload"))

	all, err := s.GetAll("documents_upload")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "doc_txt_0", all[0].ID)
	assert.Equal(t, "doc_txt_1", all[1].ID)
}

func TestReopen_DurableRecordsVisible(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.EnsureIndex("documents_upload", mapping(2)))
	require.NoError(t, s.Put("documents_upload", "published", record("published before close", 1, 0)))
	require.NoError(t, s.Refresh("documents_upload"))
	// Durable but never refreshed in this session.
	require.NoError(t, s.Put("documents_upload", "pending", record("pending at close", 0, 1)))
	require.NoError(t, s.Close())

	reopened, err := NewBoltIndexStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.GetAll("documents_upload")
	require.NoError(t, err)
	assert.Len(t, all, 2, "all durable records are visible after reopen")

	names, err := reopened.ListIndexes("documents_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"documents_upload"}, names)
}
