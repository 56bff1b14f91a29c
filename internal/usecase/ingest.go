package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"docsearch/internal/adapter/loader"
	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// DefaultBatchSize bounds how many chunks go into one embedding call.
const DefaultBatchSize = 50

// ObjectSourcePrefix marks sources that originate in object storage;
// such documents are not persisted back into the raw zone.
const ObjectSourcePrefix = "minio/"

// IngestUseCase runs the ingestion pipeline for one document at a time:
// load, chunk, embed in batches, write to the index, refresh, persist
// the raw bytes.
type IngestUseCase struct {
	loaders  port.Loader
	chunker  port.Chunker
	embedder port.Embedder
	index    port.IndexStore
	objects  port.ObjectStore
	log      *slog.Logger

	batchSize     int
	rawZoneBucket string
	tempDir       string
	progress      func(processed, total int)
}

func NewIngestUseCase(
	loaders port.Loader,
	chunker port.Chunker,
	embedder port.Embedder,
	index port.IndexStore,
	objects port.ObjectStore,
	batchSize int,
	rawZoneBucket string,
	tempDir string,
	log *slog.Logger,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &IngestUseCase{
		loaders:       loaders,
		chunker:       chunker,
		embedder:      embedder,
		index:         index,
		objects:       objects,
		batchSize:     batchSize,
		rawZoneBucket: rawZoneBucket,
		tempDir:       tempDir,
		log:           log,
	}
}

// SetProgress installs a callback invoked after each indexed batch.
func (u *IngestUseCase) SetProgress(fn func(processed, total int)) {
	u.progress = fn
}

// IngestRequest describes one document to ingest. OriginalFilename
// overrides the path basename in metadata and record IDs; needed when
// the file on disk is a randomized temp spool.
type IngestRequest struct {
	FilePath         string
	Source           string
	Description      string
	OriginalFilename string
}

// Ingest runs the pipeline. A failure at any step aborts the remaining
// steps; batches already written stay written. A file living in the
// configured temp directory is removed on both success and failure.
func (u *IngestUseCase) Ingest(req IngestRequest) (*domain.IngestResult, error) {
	if u.tempDir != "" && filepath.Dir(req.FilePath) == filepath.Clean(u.tempDir) {
		defer os.Remove(req.FilePath)
	}

	source := req.Source
	if source == "" {
		source = "upload"
	}

	text, err := u.loaders.Load(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	chunks := u.chunker.Split(text)

	filename := req.OriginalFilename
	if filename == "" {
		filename = filepath.Base(req.FilePath)
	}

	meta := domain.Metadata{
		Source:      source,
		Filename:    filename,
		Description: req.Description,
	}
	for i := range chunks {
		chunks[i].Metadata = meta
	}

	indexName := domain.IndexNameFor(source)
	mapping := domain.IndexMapping{
		Dims:       u.embedder.Dimension(),
		Similarity: "cosine",
	}
	if err := u.index.EnsureIndex(indexName, mapping); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIndexCreation, indexName, err)
	}

	if err := u.indexChunks(indexName, filename, chunks); err != nil {
		return nil, err
	}

	if err := u.index.Refresh(indexName); err != nil {
		return nil, fmt.Errorf("%w: refresh %s: %v", domain.ErrStoreWrite, indexName, err)
	}

	if !strings.HasPrefix(source, ObjectSourcePrefix) {
		if err := u.persistRaw(req.FilePath, filename); err != nil {
			return nil, err
		}
	}

	u.log.Info("document ingested",
		"index", indexName,
		"filename", filename,
		"chunks", len(chunks),
	)

	return &domain.IngestResult{
		Status:        "success",
		IndexedChunks: len(chunks),
		IndexName:     indexName,
		Filename:      filename,
	}, nil
}

// indexChunks embeds and writes chunks in sequential fixed-size
// batches. Record IDs derive from the chunk's offset within the whole
// batch run, so re-ingesting the same filename overwrites in place.
func (u *IngestUseCase) indexChunks(indexName, filename string, chunks []domain.Chunk) error {
	idPrefix := domain.SanitizeID(filename)
	totalBatches := (len(chunks) + u.batchSize - 1) / u.batchSize

	for start := 0; start < len(chunks); start += u.batchSize {
		end := start + u.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := u.embedder.EmbedBatch(texts)
		if err != nil {
			return fmt.Errorf("%w: batch %d/%d: %v", domain.ErrEmbedding, start/u.batchSize+1, totalBatches, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbedding, len(vectors), len(batch))
		}

		for i, c := range batch {
			id := fmt.Sprintf("%s_%d", idPrefix, start+i)
			rec := domain.Record{
				Content:  c.Text,
				Metadata: c.Metadata,
				Vector:   vectors[i],
			}
			if err := u.index.Put(indexName, id, rec); err != nil {
				return fmt.Errorf("%w: %s/%s: %v", domain.ErrStoreWrite, indexName, id, err)
			}
		}

		u.log.Info("indexed batch",
			"index", indexName,
			"batch", start/u.batchSize+1,
			"batches", totalBatches,
		)
		if u.progress != nil {
			u.progress(end, len(chunks))
		}
	}

	return nil
}

// persistRaw stores the original bytes in the raw-ingestion zone under
// documents/<filename>. Overwrites are idempotent, not dedup-aware.
func (u *IngestUseCase) persistRaw(filePath, filename string) error {
	ctx := context.Background()

	exists, err := u.objects.BucketExists(ctx, u.rawZoneBucket)
	if err != nil {
		return fmt.Errorf("check raw zone bucket: %w", err)
	}
	if !exists {
		if err := u.objects.MakeBucket(ctx, u.rawZoneBucket); err != nil {
			return fmt.Errorf("create raw zone bucket: %w", err)
		}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read original file: %w", err)
	}

	key := "documents/" + filename
	if err := u.objects.PutObject(ctx, u.rawZoneBucket, key, data); err != nil {
		return fmt.Errorf("store original in raw zone: %w", err)
	}
	return nil
}

// IngestFromObjectStore fetches an object, spools it to the temp
// directory under a random name and ingests it with the object's own
// basename in metadata. The spool file is removed by Ingest.
func (u *IngestUseCase) IngestFromObjectStore(bucket, objectKey string) (*domain.IngestResult, error) {
	data, err := u.objects.GetObject(context.Background(), bucket, objectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", bucket, objectKey, err)
	}

	if err := os.MkdirAll(u.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	spoolPath := filepath.Join(u.tempDir, uuid.New().String()+loader.Extension(objectKey))
	if err := os.WriteFile(spoolPath, data, 0644); err != nil {
		return nil, fmt.Errorf("spool object to temp file: %w", err)
	}

	return u.Ingest(IngestRequest{
		FilePath:         spoolPath,
		Source:           ObjectSourcePrefix + bucket,
		Description:      fmt.Sprintf("Document from object storage: %s/%s", bucket, objectKey),
		OriginalFilename: path.Base(objectKey),
	})
}

// ScanEntry is the outcome for one object of a bucket scan.
type ScanEntry struct {
	Key    string
	Result *domain.IngestResult
	Err    error
}

// ScanBucket ingests every object under prefix, optionally filtered by
// a glob pattern on the object key. Per-object failures are recorded
// and do not abort the scan.
func (u *IngestUseCase) ScanBucket(bucket, prefix, pattern string) ([]ScanEntry, error) {
	ctx := context.Background()

	exists, err := u.objects.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		u.log.Warn("bucket does not exist", "bucket", bucket)
		return nil, nil
	}

	objects, err := u.objects.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var entries []ScanEntry
	for _, obj := range objects {
		if pattern != "" {
			ok, err := doublestar.Match(pattern, obj.Key)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}

		result, err := u.IngestFromObjectStore(bucket, obj.Key)
		if err != nil {
			u.log.Error("failed to ingest object", "bucket", bucket, "key", obj.Key, "error", err)
		}
		entries = append(entries, ScanEntry{Key: obj.Key, Result: result, Err: err})
	}

	u.log.Info("bucket scan complete", "bucket", bucket, "prefix", prefix, "objects", len(entries))
	return entries, nil
}
