package expand

import (
	"context"
	"fmt"
	"strings"
)

// Completer generates a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service produces hypothetical answers used as dense-query surrogates.
// The expansion text is never shown to the user and never used for
// lexical scoring.
type Service struct {
	llm Completer
}

// New creates a query expansion service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Expand asks the model for a concise ideal answer to the question.
// Failures propagate; the caller decides whether to proceed without
// expansion.
func (s *Service) Expand(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(
		"Craft a concise, ideal answer to the question below. Keep it under 80 words.\n\nQuestion: %s",
		question,
	)
	out, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("expand query: %w", err)
	}
	return strings.TrimSpace(out), nil
}
