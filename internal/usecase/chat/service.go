package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
	"github.com/halcyon-labs/careerchat/internal/usecase/retrieval"
)

const (
	// noMatchReply is returned when retrieval yields nothing to cite.
	noMatchReply = "I could not find matching roles right now. " +
		"Consider refining your interests or sharing more details."

	snippetLimit = 300
)

// Source points a reply at a retrieved document.
type Source struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// Reply is one assistant turn with tool attribution.
type Reply struct {
	Text    string   `json:"text"`
	Tool    string   `json:"tool"`
	Sources []Source `json:"sources,omitempty"`
}

// Service implements the per-intent conversation handlers.
type Service struct {
	llm       Completer
	expander  Expander
	retriever Retriever
	topK      int
	logger    *zap.Logger
}

// New creates the chat service. topK bounds how many documents job
// recommendations retrieve and cite.
func New(llm Completer, expander Expander, retriever Retriever, topK int, logger *zap.Logger) *Service {
	return &Service{
		llm:       llm,
		expander:  expander,
		retriever: retriever,
		topK:      topK,
		logger:    logger,
	}
}

// NormalChat holds a general conversation, optionally enriched by web
// search findings.
func (s *Service) NormalChat(ctx context.Context, history, input string, findings []domain.WebFinding) (Reply, error) {
	var searchContext string
	if len(findings) > 0 {
		lines := make([]string, 0, len(findings))
		for _, f := range findings {
			line := fmt.Sprintf("- %s: %s", f.Title, f.Snippet)
			if len(line) > snippetLimit {
				line = line[:snippetLimit]
			}
			lines = append(lines, line)
		}
		searchContext = "Web findings:\n" + strings.Join(lines, "\n") + "\n\n"
	}

	prompt := fmt.Sprintf(
		"You are a career assistant carrying on a friendly conversation.\n%sRecent conversation:\n%s\n\nUser: %s\nAssistant:",
		searchContext, history, input,
	)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Tool: string(domain.IntentNormalChat)}, nil
}

// MockInterview generates one interview question with a scoring rubric,
// scaling difficulty with the turn index.
func (s *Service) MockInterview(ctx context.Context, history, resumeText string, turnIndex int) (Reply, error) {
	prompt := fmt.Sprintf(
		"You are conducting a mock interview. Provide exactly one interview question "+
			"followed by a short scoring rubric.\n"+
			"Increase difficulty as the session progresses. Use the turn index to gauge "+
			"difficulty: 0 is easy, 1-2 moderate, >2 advanced.\n"+
			"Format:\nQuestion: ...\nRubric:\n- ...\n- ...\n- ...\n"+
			"Resume context (if any):\n%s\n\nRecent conversation:\n%s\n\nTurn index: %d\n"+
			"Provide the response now.",
		resumeText, history, turnIndex,
	)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Tool: string(domain.IntentMockInterview)}, nil
}

// EvaluateResume asks for a JSON-only critique of the resume text.
func (s *Service) EvaluateResume(ctx context.Context, resumeText string) (Reply, error) {
	prompt := fmt.Sprintf(
		"You are a resume reviewer. Read the resume text and respond with JSON only.\n"+
			`Keys: "pros" (array of strengths), "cons" (array of issues), `+
			`"suggestions" (array of concise advice).`+"\n"+
			"Resume:\n%s\nJSON:",
		resumeText,
	)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Tool: string(domain.IntentEvaluateResume)}, nil
}

// RecommendJob answers from the job corpus: the question is expanded into
// a hypothetical answer for dense retrieval, the hybrid results become
// numbered context, and the reply cites them with bracketed indices.
func (s *Service) RecommendJob(ctx context.Context, question string, extra []domain.Document) (Reply, error) {
	var opts []retrieval.Option
	synthetic, err := s.expander.Expand(ctx, question)
	if err != nil {
		s.logger.Warn("Query expansion failed, using the raw question", zap.Error(err))
	} else if synthetic != "" {
		opts = append(opts, retrieval.WithQueryText(synthetic))
	}
	if len(extra) > 0 {
		opts = append(opts, retrieval.WithExtraDocuments(extra))
	}

	results := s.retriever.Search(ctx, question, s.topK, opts...)
	if len(results) == 0 {
		return Reply{Text: noMatchReply, Tool: string(domain.IntentRecommendJob), Sources: []Source{}}, nil
	}

	contextLines := make([]string, len(results))
	sources := make([]Source, len(results))
	for i, r := range results {
		contextLines[i] = fmt.Sprintf("[%d] %s", i, r.Text)
		sources[i] = Source{Source: r.Src, Score: r.HybridScore, Text: r.Text}
	}

	prompt := fmt.Sprintf(
		"You are a job matching assistant. Use the provided context to recommend roles. "+
			"Cite supporting snippets with bracketed numbers like [0].\n"+
			"User question: %s\nContext:\n%s\n\nAnswer:",
		question, strings.Join(contextLines, "\n\n"),
	)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Tool: string(domain.IntentRecommendJob), Sources: sources}, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	out, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return strings.TrimSpace(out), nil
}
