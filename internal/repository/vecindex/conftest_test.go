package vecindex

import (
	"context"
	"strings"

	"github.com/halcyon-labs/careerchat/internal/db"
	"github.com/halcyon-labs/careerchat/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	delMultiFn    func(ctx context.Context, keys []string) error
	existsMultiFn func(ctx context.Context, keys []string) ([]bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)

	hsetMultiCalls   int
	createIndexCalls int
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	m.hsetMultiCalls++
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) DelMulti(ctx context.Context, keys []string) error {
	if m.delMultiFn != nil {
		return m.delMultiFn(ctx, keys)
	}
	return nil
}

func (m *mockStore) ExistsMulti(ctx context.Context, keys []string) ([]bool, error) {
	if m.existsMultiFn != nil {
		return m.existsMultiFn(ctx, keys)
	}
	return make([]bool, len(keys)), nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.createIndexCalls++
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// fakeStore keeps hashes in memory for idempotency tests.
type fakeStore struct {
	mockStore
	docs map[string]map[string]string
}

func newFakeStore() *fakeStore {
	f := &fakeStore{docs: make(map[string]map[string]string)}
	f.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		for _, item := range items {
			f.docs[item.Key] = item.Fields
		}
		return nil
	}
	f.existsMultiFn = func(_ context.Context, keys []string) ([]bool, error) {
		out := make([]bool, len(keys))
		for i, k := range keys {
			_, out[i] = f.docs[k]
		}
		return out, nil
	}
	f.delMultiFn = func(_ context.Context, keys []string) error {
		for _, k := range keys {
			delete(f.docs, k)
		}
		return nil
	}
	return f
}

// mockEmbedder returns deterministic vectors keyed on text length.
type mockEmbedder struct {
	err    error
	called int
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.called++
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i, t := range texts {
		embeddings[i] = []float32{float32(len(strings.Fields(t))), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: len(texts)}, nil
}
