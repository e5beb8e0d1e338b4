package vecindex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/db"
	"github.com/halcyon-labs/careerchat/internal/domain"
)

// store is the consumer interface for the vector index (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	ExistsMulti(ctx context.Context, keys []string) ([]bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Index is the durable document store with nearest-neighbor retrieval.
// All documents live in one logical collection; first access creates the
// underlying FT index, subsequent accesses reuse it.
type Index struct {
	store    store
	embedder domain.BatchEmbedder
	dim      int
	logger   *zap.Logger

	mu    sync.Mutex
	ready bool
}

// New creates a vector index repository.
func New(s store, embedder domain.BatchEmbedder, dim int, logger *zap.Logger) *Index {
	if dim <= 0 {
		dim = domain.DefaultVectorConfig().Dimensions
	}
	return &Index{store: s, embedder: embedder, dim: dim, logger: logger}
}

func docKey(id string) string {
	return domain.KeyPrefix + domain.CollectionName + ":" + id
}

func indexName() string {
	return domain.KeyPrefix + domain.CollectionName + ":idx"
}

// ensureIndex creates the FT index on first use. The mutex makes concurrent
// first access race-free; a failed attempt is retried on the next call.
func (x *Index) ensureIndex(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.ready {
		return nil
	}

	exists, err := x.store.IndexExists(ctx, indexName())
	if err != nil {
		return fmt.Errorf("probe index: %w: %w", domain.ErrIndexUnavailable, err)
	}
	if !exists {
		def := &db.IndexDefinition{
			Name:     indexName(),
			Prefixes: []string{domain.KeyPrefix + domain.CollectionName + ":"},
			Fields: []db.IndexField{
				{Name: "__content", Type: db.IndexFieldText},
				{
					Name:           "__vector",
					Type:           db.IndexFieldVector,
					VectorAlgo:     db.VectorFlat,
					VectorDim:      x.dim,
					VectorDistance: db.DistanceCosine,
				},
			},
		}
		if err := x.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index: %w: %w", domain.ErrIndexUnavailable, err)
		}
	}

	x.ready = true
	return nil
}

// AddTexts embeds texts and persists them, returning the document ids in
// input order. Ids are generated when none are supplied. The call is atomic
// with respect to embedding: any embedding failure aborts before a single
// write happens.
func (x *Index) AddTexts(
	ctx context.Context, texts []string, metadatas []map[string]string, ids []string,
) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("%w: %d metadatas for %d texts", domain.ErrInvalidInput, len(metadatas), len(texts))
	}
	if ids != nil && len(ids) != len(texts) {
		return nil, fmt.Errorf("%w: %d ids for %d texts", domain.ErrInvalidInput, len(ids), len(texts))
	}

	if err := x.ensureIndex(ctx); err != nil {
		return nil, err
	}

	batch, err := x.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed texts: %w", err)
	}
	if len(batch.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed texts: got %d vectors for %d texts: %w",
			len(batch.Embeddings), len(texts), domain.ErrEmbeddingProvider)
	}

	docIDs := ids
	if docIDs == nil {
		docIDs = make([]string, len(texts))
		for i := range docIDs {
			docIDs[i] = uuid.NewString()
		}
	}

	items := make([]db.HashSetItem, len(texts))
	for i, text := range texts {
		var meta map[string]string
		if metadatas != nil {
			meta = metadatas[i]
		}
		items[i] = db.HashSetItem{
			Key:    docKey(docIDs[i]),
			Fields: buildHashFields(text, batch.Embeddings[i], meta),
		}
	}

	if err := x.store.HSetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("store documents: %w: %w", domain.ErrIndexUnavailable, err)
	}

	return docIDs, nil
}

// Delete removes documents by id. Best-effort: absent ids are not an error
// and storage failures are logged, not propagated, so that a cleanup step
// never aborts the caller's larger workflow.
func (x *Index) Delete(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}
	if err := x.store.DelMulti(ctx, keys); err != nil {
		x.logger.Warn("failed to delete documents", zap.Strings("ids", ids), zap.Error(err))
	}
}

// Query returns up to k nearest neighbors ordered by ascending distance.
// Storage failures surface as domain.ErrIndexUnavailable so callers can
// distinguish "unreachable" from "zero results".
func (x *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.DenseHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := x.ensureIndex(ctx); err != nil {
		return nil, err
	}

	sr, err := x.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content"},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", domain.ErrIndexUnavailable, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := domain.KeyPrefix + domain.CollectionName + ":"
	hits := make([]domain.DenseHit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, parseHit(entry, prefix))
	}
	return hits, nil
}

// EnsureSeeded indexes any default-corpus documents missing from the store.
// Seed ids are stable, so repeated calls are no-ops once the corpus exists.
func (x *Index) EnsureSeeded(ctx context.Context) error {
	corpus := domain.DefaultCorpus()

	keys := make([]string, len(corpus))
	for i, doc := range corpus {
		keys[i] = docKey(doc.ID)
	}

	present, err := x.store.ExistsMulti(ctx, keys)
	if err != nil {
		return fmt.Errorf("check seed documents: %w: %w", domain.ErrIndexUnavailable, err)
	}

	var texts []string
	var metadatas []map[string]string
	var ids []string
	now := time.Now().UTC().Format(time.RFC3339)
	for i, doc := range corpus {
		if present[i] {
			continue
		}
		texts = append(texts, doc.Text)
		ids = append(ids, doc.ID)
		metadatas = append(metadatas, map[string]string{
			"source":     doc.ID,
			"type":       "seed_job",
			"created_at": now,
		})
	}

	if len(texts) == 0 {
		x.logger.Debug("seed corpus already present")
		return nil
	}

	if _, err := x.AddTexts(ctx, texts, metadatas, ids); err != nil {
		return fmt.Errorf("seed corpus: %w", err)
	}

	x.logger.Info("seeded job documents", zap.Int("count", len(texts)))
	return nil
}
