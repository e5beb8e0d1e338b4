package retrieval

import (
	"math"
	"strings"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Okapi BM25 parameters.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// tokenize lowercases and splits on whitespace. Intentionally naive:
// no stemming, no stopword removal.
func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// scoreCorpus fits Okapi BM25 over the supplied documents and scores the
// query against each. It returns normalized scores (raw divided by the
// batch maximum) and the raw scores keyed by document id. Statistics are
// corpus-relative and rebuilt per call; the function holds no state
// between invocations.
//
// Empty corpus returns empty maps. A query with no tokens, or a batch
// whose maximum raw score is zero, yields all-zero normalized scores.
func scoreCorpus(query string, corpus []domain.Document) (normalized, raw map[string]float64) {
	if len(corpus) == 0 {
		return map[string]float64{}, map[string]float64{}
	}

	docTokens := make([][]string, len(corpus))
	docFreq := make(map[string]int)
	totalLen := 0
	for i, doc := range corpus {
		tokens := tokenize(doc.Text)
		docTokens[i] = tokens
		totalLen += len(tokens)

		seen := make(map[string]bool, len(tokens))
		for _, term := range tokens {
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}
	avgDocLen := float64(totalLen) / float64(len(corpus))

	idf := fitIDF(docFreq, len(corpus))

	queryTerms := tokenize(query)
	raw = make(map[string]float64, len(corpus))
	maxScore := 0.0
	for i, doc := range corpus {
		termFreq := make(map[string]int, len(docTokens[i]))
		for _, term := range docTokens[i] {
			termFreq[term]++
		}
		docLen := float64(len(docTokens[i]))

		score := 0.0
		for _, term := range queryTerms {
			tf, ok := termFreq[term]
			if !ok {
				continue
			}
			num := float64(tf) * (bm25K1 + 1.0)
			den := float64(tf) + bm25K1*(1.0-bm25B+bm25B*docLen/avgDocLen)
			score += idf[term] * num / den
		}

		raw[doc.ID] = score
		if score > maxScore {
			maxScore = score
		}
	}

	normalized = make(map[string]float64, len(raw))
	for id, score := range raw {
		if maxScore <= 0 {
			normalized[id] = 0.0
			continue
		}
		normalized[id] = score / maxScore
	}
	return normalized, raw
}

// fitIDF computes per-term inverse document frequency. Terms appearing in
// more than half the corpus get a negative raw idf; those are floored to
// epsilon times the average idf so common terms still contribute a small
// positive weight.
func fitIDF(docFreq map[string]int, n int) map[string]float64 {
	idf := make(map[string]float64, len(docFreq))
	sum := 0.0
	var negative []string
	for term, df := range docFreq {
		v := math.Log((float64(n) - float64(df) + 0.5) / (float64(df) + 0.5))
		idf[term] = v
		sum += v
		if v < 0 {
			negative = append(negative, term)
		}
	}
	if len(idf) == 0 {
		return idf
	}
	avg := sum / float64(len(idf))
	floor := bm25Epsilon * avg
	for _, term := range negative {
		idf[term] = floor
	}
	return idf
}
