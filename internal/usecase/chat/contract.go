package chat

import (
	"context"

	"github.com/halcyon-labs/careerchat/internal/domain"
	"github.com/halcyon-labs/careerchat/internal/usecase/retrieval"
)

// Completer generates a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Expander produces a dense-query surrogate for a question.
type Expander interface {
	Expand(ctx context.Context, question string) (string, error)
}

// Retriever ranks documents for a query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int, opts ...retrieval.Option) []domain.RankedResult
}
