package retrieval

import (
	"context"
	"math"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Hybrid weighting constants. Fixed design constants, not learned.
const (
	denseWeight = 0.6
	bm25Weight  = 0.4

	// Over-fetch factor and floor for dense candidates, so lexical
	// re-ranking has enough material to reorder.
	candidateFactor = 3
	candidateFloor  = 20
)

// Option configures a single Search call.
type Option func(*searchParams)

type searchParams struct {
	queryText string
	extraDocs []domain.Document
}

// WithQueryText overrides the text embedded for dense retrieval (e.g. a
// query-expansion surrogate). The literal query is still used for lexical
// scoring.
func WithQueryText(text string) Option {
	return func(p *searchParams) { p.queryText = text }
}

// WithExtraDocuments merges caller-supplied documents into the candidate
// set before lexical scoring. They are never persisted in the index.
func WithExtraDocuments(docs []domain.Document) Option {
	return func(p *searchParams) { p.extraDocs = docs }
}

// Service ranks documents by a weighted combination of dense similarity
// and BM25 lexical relevance.
type Service struct {
	index         Index
	embed         Embedder
	fallbackTotal prometheus.Counter
	logger        *zap.Logger
}

// New creates a hybrid retrieval service.
// fallbackTotal counts dense-path failures that degraded to the default
// corpus, passed explicitly.
func New(index Index, embed Embedder, fallbackTotal prometheus.Counter, logger *zap.Logger) *Service {
	return &Service{
		index:         index,
		embed:         embed,
		fallbackTotal: fallbackTotal,
		logger:        logger,
	}
}

// Search returns up to topK documents ranked by hybrid score. It degrades
// instead of failing: an unreachable index or embedding provider swaps the
// candidate pool for the default corpus and ranks lexically only, so the
// caller always receives a well-formed result.
func (s *Service) Search(ctx context.Context, query string, topK int, opts ...Option) []domain.RankedResult {
	if topK <= 0 {
		return nil
	}

	var params searchParams
	for _, opt := range opts {
		opt(&params)
	}

	candidates := s.denseCandidates(ctx, query, topK, params.queryText)
	candidates = mergeExtraDocuments(candidates, params.extraDocs)

	if len(candidates) == 0 {
		return defaultResults(topK)
	}

	// Lexical scoring runs over the candidate pool only, always against
	// the literal query.
	docs := make([]domain.Document, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Document
	}
	normalized, raw := scoreCorpus(query, docs)

	results := make([]domain.RankedResult, len(candidates))
	for i, c := range candidates {
		bm25Raw := raw[c.ID]
		c.BM25Raw = &bm25Raw
		c.BM25Score = round4(normalized[c.ID])
		c.DenseScore = round4(c.DenseScore)

		results[i] = domain.RankedResult{
			Candidate:   c,
			HybridScore: round4(c.DenseScore*denseWeight + c.BM25Score*bm25Weight),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// denseCandidates embeds the query (or its override) and fetches nearest
// neighbors. Any dense-path failure degrades to the default corpus with
// zero dense scores.
func (s *Service) denseCandidates(ctx context.Context, query string, topK int, override string) []domain.Candidate {
	embedText := query
	if override != "" {
		embedText = override
	}
	n := topK * candidateFactor
	if n < candidateFloor {
		n = candidateFloor
	}

	embResult, err := s.embed.Embed(ctx, embedText)
	if err != nil {
		s.degrade("vectorize query", err)
		return fallbackCandidates()
	}

	hits, err := s.index.Query(ctx, embResult.Embedding, n)
	if err != nil {
		s.degrade("query index", err)
		return fallbackCandidates()
	}

	candidates := make([]domain.Candidate, len(hits))
	for i, hit := range hits {
		distance := hit.Distance
		candidates[i] = domain.Candidate{
			Document:      hit.Document,
			Src:           hit.Document.Source(),
			DenseScore:    denseScore(distance),
			DenseDistance: &distance,
		}
	}
	return candidates
}

func (s *Service) degrade(op string, err error) {
	s.logger.Warn("Dense retrieval degraded to default corpus",
		zap.String("op", op), zap.Error(err))
	if s.fallbackTotal != nil {
		s.fallbackTotal.Inc()
	}
}

// fallbackCandidates returns the default corpus as a lexical-only pool.
func fallbackCandidates() []domain.Candidate {
	corpus := domain.DefaultCorpus()
	candidates := make([]domain.Candidate, len(corpus))
	for i, doc := range corpus {
		candidates[i] = domain.Candidate{
			Document: doc,
			Src:      doc.Source(),
		}
	}
	return candidates
}

// mergeExtraDocuments appends caller documents not already in the pool.
// A dense candidate with the same id wins.
func mergeExtraDocuments(candidates []domain.Candidate, extra []domain.Document) []domain.Candidate {
	if len(extra) == 0 {
		return candidates
	}
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.ID] = true
	}
	for _, doc := range extra {
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		candidates = append(candidates, domain.Candidate{
			Document: doc,
			Src:      doc.Source(),
		})
	}
	return candidates
}

// defaultResults returns the first topK default-corpus entries with all
// scores zero. Used when the merge produced nothing at all.
func defaultResults(topK int) []domain.RankedResult {
	corpus := domain.DefaultCorpus()
	if len(corpus) > topK {
		corpus = corpus[:topK]
	}
	results := make([]domain.RankedResult, len(corpus))
	for i, doc := range corpus {
		results[i] = domain.RankedResult{
			Candidate: domain.Candidate{Document: doc, Src: doc.Source()},
		}
	}
	return results
}

// denseScore maps a non-negative distance to a similarity in [0,1].
func denseScore(distance float64) float64 {
	if distance <= 0 {
		return 1.0
	}
	return 1.0 / (1.0 + distance)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
