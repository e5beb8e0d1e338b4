// Package textproc holds text helpers for uploaded documents and prompts.
package textproc

import (
	"regexp"
	"strings"
)

var documentPattern = regexp.MustCompile(`(?is)<document>(.*?)</document>`)

// Chunking defaults tuned for retrieval over job postings and resumes.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// ExtractDocuments returns the trimmed contents of every <document>
// block in the input, in order of appearance.
func ExtractDocuments(input string) []string {
	matches := documentPattern.FindAllStringSubmatch(input, -1)
	if len(matches) == 0 {
		return nil
	}
	docs := make([]string, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, strings.TrimSpace(m[1]))
	}
	return docs
}

// StripDocumentTags removes every <document> block and trims the rest.
func StripDocumentTags(input string) string {
	return strings.TrimSpace(documentPattern.ReplaceAllString(input, ""))
}

// Chunk splits text into overlapping rune windows. The last chunk may be
// shorter. overlap is clamped to size-1 so the scan always advances.
func Chunk(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size - 1
	}
	runes := []rune(text)
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}
