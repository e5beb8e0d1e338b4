package domain

import "fmt"

// Document is a unit of indexed text with caller-visible identity.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// NewDocument validates and creates a Document.
func NewDocument(id, text string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if text == "" {
		return Document{}, fmt.Errorf("document text is required")
	}
	return Document{ID: id, Text: text, Metadata: cloneStringMap(metadata)}, nil
}

// Source returns the display source for the document: the "source" metadata
// entry when present, the document id otherwise.
func (d Document) Source() string {
	if s, ok := d.Metadata["source"]; ok && s != "" {
		return s
	}
	return d.ID
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
