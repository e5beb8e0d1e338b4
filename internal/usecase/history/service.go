package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Repository is the consumer interface for history persistence (ISP).
type Repository interface {
	Append(ctx context.Context, msg domain.Message) error
	Recent(ctx context.Context, limit int) ([]domain.Message, error)
	CountAssistantTurns(ctx context.Context, intent domain.Intent) (int, error)
}

// Service exposes conversation history to the chat pipeline: a bounded
// prompt window and per-intent turn counting.
type Service struct {
	repo   Repository
	window int
}

// New creates the history service. window bounds how many messages feed
// the prompt context.
func New(repo Repository, window int) *Service {
	return &Service{repo: repo, window: window}
}

// Append stores one message.
func (s *Service) Append(ctx context.Context, msg domain.Message) error {
	return s.repo.Append(ctx, msg)
}

// Recent returns up to limit messages in chronological order.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Message, error) {
	return s.repo.Recent(ctx, limit)
}

// Window returns the last messages of the sliding window formatted one
// per line as "role: content".
func (s *Service) Window(ctx context.Context) (string, error) {
	if s.window <= 0 {
		return "", nil
	}
	messages, err := s.repo.Recent(ctx, s.window)
	if err != nil {
		return "", fmt.Errorf("history window: %w", err)
	}
	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return strings.Join(lines, "\n"), nil
}

// TurnCount returns how many assistant turns carry the intent. Used to
// scale mock-interview difficulty.
func (s *Service) TurnCount(ctx context.Context, intent domain.Intent) (int, error) {
	return s.repo.CountAssistantTurns(ctx, intent)
}
