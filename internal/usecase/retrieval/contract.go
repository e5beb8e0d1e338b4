package retrieval

import (
	"context"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Index is the consumer interface for dense candidate retrieval (ISP).
type Index interface {
	Query(ctx context.Context, vector []float32, k int) ([]domain.DenseHit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
