package retrieval

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

type mockIndex struct {
	queryFn    func(ctx context.Context, vector []float32, k int) ([]domain.DenseHit, error)
	queryCalls int
	lastK      int
}

func (m *mockIndex) Query(ctx context.Context, vector []float32, k int) ([]domain.DenseHit, error) {
	m.queryCalls++
	m.lastK = k
	if m.queryFn != nil {
		return m.queryFn(ctx, vector, k)
	}
	return nil, nil
}

type mockEmbedder struct {
	embedFn  func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	lastText string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.lastText = text
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func newTestService(t *testing.T) (*Service, *mockIndex, *mockEmbedder) {
	t.Helper()
	idx := &mockIndex{}
	emb := &mockEmbedder{}
	svc := New(idx, emb, nil, zap.NewNop())
	return svc, idx, emb
}

func hit(id, text string, distance float64) domain.DenseHit {
	return domain.DenseHit{
		Document: domain.Document{ID: id, Text: text},
		Distance: distance,
	}
}
