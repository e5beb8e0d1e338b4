package intent

import (
	"math"
	"strings"
	"unicode"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// seedUtterances is the fitted dataset for the lexical fallback. Two
// examples per intent keep the model tiny but separable.
var seedUtterances = []struct {
	text  string
	label domain.Intent
}{
	{"Tell me about the work culture at startups.", domain.IntentNormalChat},
	{"Thanks, that's helpful!", domain.IntentNormalChat},
	{"Can you ask me a behavioral interview question?", domain.IntentMockInterview},
	{"Let's practice data scientist interviews.", domain.IntentMockInterview},
	{"Here is my resume, can you critique it?", domain.IntentEvaluateResume},
	{"What are the weak points in this CV?", domain.IntentEvaluateResume},
	{"Match me with AI job openings.", domain.IntentRecommendJob},
	{"Find machine learning engineer roles in New York.", domain.IntentRecommendJob},
}

// seedModel is a TF-IDF nearest-neighbor classifier over the seed
// utterances. Vectors are fitted once at construction and are read-only
// afterwards, so concurrent classification needs no locking.
type seedModel struct {
	idf   map[string]float64
	seeds []seedVector
}

type seedVector struct {
	label domain.Intent
	vec   map[string]float64
}

func fitSeedModel() *seedModel {
	n := len(seedUtterances)
	seedTerms := make([][]string, n)
	docFreq := make(map[string]int)
	for i, seed := range seedUtterances {
		terms := ngrams(seed.text)
		seedTerms[i] = terms
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}

	// Smoothed idf, as if one extra document contained every term.
	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		idf[term] = math.Log(float64(1+n)/float64(1+df)) + 1.0
	}

	m := &seedModel{idf: idf, seeds: make([]seedVector, n)}
	for i, seed := range seedUtterances {
		m.seeds[i] = seedVector{
			label: seed.label,
			vec:   m.vectorize(seedTerms[i]),
		}
	}
	return m
}

// classify returns the label of the nearest seed by cosine similarity.
// An utterance sharing no vocabulary with any seed maps to normal chat.
func (m *seedModel) classify(text string) domain.Intent {
	vec := m.vectorize(ngrams(text))

	best := domain.IntentNormalChat
	bestSim := 0.0
	for _, seed := range m.seeds {
		sim := dot(vec, seed.vec)
		if sim > bestSim {
			bestSim = sim
			best = seed.label
		}
	}
	return best
}

// vectorize builds an l2-normalized tf-idf vector. Terms outside the
// fitted vocabulary are ignored.
func (m *seedModel) vectorize(terms []string) map[string]float64 {
	vec := make(map[string]float64)
	for _, term := range terms {
		if w, ok := m.idf[term]; ok {
			vec[term] += w
		}
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for term, v := range a {
		sum += v * b[term]
	}
	return sum
}

// ngrams lowercases, strips punctuation, and emits unigrams plus
// adjacent-word bigrams.
func ngrams(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(words)*2)
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}
