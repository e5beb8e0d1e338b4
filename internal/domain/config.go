package domain

// KeyPrefix namespaces all careerchat keys in the shared Redis instance.
const KeyPrefix = "careerchat:"

// CollectionName is the single logical document collection shared by all
// callers within a process.
const CollectionName = "jobs"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
	Algorithm      string
}

// DefaultVectorConfig returns the default configuration tuned for
// text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     1536,
		DistanceMetric: "cosine",
		Algorithm:      "flat",
	}
}
