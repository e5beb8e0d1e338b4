package vecindex

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/halcyon-labs/careerchat/internal/db"
	"github.com/halcyon-labs/careerchat/internal/domain"
)

// buildHashFields flattens a document into HSET fields. Metadata entries sit
// next to the reserved __content/__vector fields; metadata keys therefore
// must not start with "__".
func buildHashFields(text string, vector []float32, metadata map[string]string) map[string]string {
	m := make(map[string]string, 2+len(metadata))
	m["__content"] = text
	m["__vector"] = vectorToBytes(vector)
	for k, v := range metadata {
		if strings.HasPrefix(k, "__") {
			continue
		}
		m[k] = v
	}
	return m
}

// parseHit converts a search entry back into a dense hit.
func parseHit(entry db.SearchEntry, keyPrefix string) domain.DenseHit {
	var text string
	var metadata map[string]string

	for k, v := range entry.Fields {
		switch k {
		case "__content":
			text = v
		case "__vector":
			// vectors are not returned to retrieval callers
		default:
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[k] = v
		}
	}

	return domain.DenseHit{
		Document: domain.Document{
			ID:       strings.TrimPrefix(entry.Key, keyPrefix),
			Text:     text,
			Metadata: metadata,
		},
		Distance: entry.Distance,
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
