package textproc

import (
	"strings"
	"testing"
)

func TestExtractDocuments(t *testing.T) {
	input := "please review <document> my resume </document> and <DOCUMENT>cover\nletter</DOCUMENT>"

	docs := ExtractDocuments(input)

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d: %v", len(docs), docs)
	}
	if docs[0] != "my resume" {
		t.Errorf("first doc = %q", docs[0])
	}
	if docs[1] != "cover\nletter" {
		t.Errorf("second doc = %q", docs[1])
	}
}

func TestExtractDocuments_None(t *testing.T) {
	if docs := ExtractDocuments("no tags here"); docs != nil {
		t.Errorf("expected nil, got %v", docs)
	}
}

func TestStripDocumentTags(t *testing.T) {
	input := "  review this <document>resume body</document> please "

	got := StripDocumentTags(input)

	if got != "review this  please" {
		t.Errorf("StripDocumentTags() = %q", got)
	}
}

func TestStripDocumentTags_OnlyDocument(t *testing.T) {
	if got := StripDocumentTags("<document>everything</document>"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestChunk_Overlap(t *testing.T) {
	text := strings.Repeat("a", 10)

	chunks := Chunk(text, 4, 1)

	want := []string{"aaaa", "aaaa", "aaaa"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks: %v", len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunk_ShortText(t *testing.T) {
	chunks := Chunk("short", DefaultChunkSize, DefaultChunkOverlap)

	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestChunk_Empty(t *testing.T) {
	if chunks := Chunk("", DefaultChunkSize, DefaultChunkOverlap); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
}

func TestChunk_ExactBoundary(t *testing.T) {
	text := strings.Repeat("b", 800)

	chunks := Chunk(text, DefaultChunkSize, DefaultChunkOverlap)

	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk at exact boundary, got %d", len(chunks))
	}
}

func TestChunk_OverlapAtLeastSizeStillAdvances(t *testing.T) {
	text := strings.Repeat("c", 10)

	for _, overlap := range []int{4, 7} {
		chunks := Chunk(text, 4, overlap)

		if len(chunks) == 0 {
			t.Fatalf("overlap %d: no chunks", overlap)
		}
		// Clamped to overlap 3: windows step by 1 rune.
		if len(chunks) != 7 {
			t.Errorf("overlap %d: got %d chunks, want 7", overlap, len(chunks))
		}
		last := chunks[len(chunks)-1]
		if !strings.HasSuffix(text, last) {
			t.Errorf("overlap %d: last chunk %q does not end the text", overlap, last)
		}
	}
}

func TestChunk_Unicode(t *testing.T) {
	text := strings.Repeat("é", 6)

	chunks := Chunk(text, 4, 1)

	if chunks[0] != "éééé" {
		t.Errorf("chunking split a rune: %q", chunks[0])
	}
}
