package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Completer generates a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Mode selects the primary classification strategy.
type Mode string

const (
	// ModeLLM asks the language model first and falls back to the
	// lexical model on failure.
	ModeLLM Mode = "llm"
	// ModeLexical skips the language model entirely.
	ModeLexical Mode = "lexical"
)

// Classifier routes a user utterance to one of the supported intents.
// Classification never fails: when the model call errors or returns an
// unknown label, the lexical fallback decides.
type Classifier struct {
	llm      Completer
	mode     Mode
	fallback *seedModel
	logger   *zap.Logger
}

// New creates a classifier. The lexical fallback model is fitted eagerly
// so first-call latency and concurrent initialization are not a concern.
func New(llm Completer, mode Mode, logger *zap.Logger) *Classifier {
	return &Classifier{
		llm:      llm,
		mode:     mode,
		fallback: fitSeedModel(),
		logger:   logger,
	}
}

// Classify returns the intent for the utterance.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Intent {
	if c.mode == ModeLLM && c.llm != nil {
		label, err := c.classifyLLM(ctx, text)
		if err == nil {
			c.logger.Debug("Intent via LLM", zap.String("intent", string(label)))
			return label
		}
		c.logger.Warn("LLM intent classification failed", zap.Error(err))
	}

	label := c.fallback.classify(text)
	c.logger.Debug("Intent via fallback", zap.String("intent", string(label)))
	return label
}

func (c *Classifier) classifyLLM(ctx context.Context, text string) (domain.Intent, error) {
	labels := make([]string, 0, len(domain.Intents()))
	for _, it := range domain.Intents() {
		labels = append(labels, string(it))
	}
	prompt := fmt.Sprintf(
		"Classify the user's intent into one of the following labels:\n%s.\nReturn ONLY the label.\nUser text:\n%s",
		strings.Join(labels, ", "), text,
	)

	raw, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}

	label, ok := domain.ParseIntent(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrIntentUnrecognized, raw)
	}
	return label, nil
}
