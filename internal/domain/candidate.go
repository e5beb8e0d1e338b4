package domain

// Candidate is a per-query retrieval record. A candidate may come from the
// dense path, the lexical path, or both; the nullable fields keep "never
// retrieved by that path" distinguishable from a true zero score.
type Candidate struct {
	Document
	Src string

	DenseScore    float64
	DenseDistance *float64
	BM25Score     float64
	BM25Raw       *float64
}

// RankedResult is a Candidate with its final combined score. Immutable once
// computed by the ranking engine.
type RankedResult struct {
	Candidate
	HybridScore float64
}

// Score is the caller-facing alias of HybridScore.
func (r RankedResult) Score() float64 { return r.HybridScore }

// DenseHit is a nearest-neighbor match with its raw index distance.
type DenseHit struct {
	Document
	Distance float64
}
