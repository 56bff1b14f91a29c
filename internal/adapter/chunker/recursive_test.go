package chunker

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	c := NewRecursiveChunker(DefaultSize, DefaultOverlap)
	if chunks := c.Split(""); chunks != nil {
		t.Errorf("expected nil for empty input, got %d chunks", len(chunks))
	}
}

func TestSplit_ShortDocument(t *testing.T) {
	c := NewRecursiveChunker(DefaultSize, DefaultOverlap)
	text := "A short document that fits in a single chunk."

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected chunk text to equal input, got %q", chunks[0].Text)
	}
	if chunks[0].StartOffset != 0 {
		t.Errorf("expected StartOffset=0, got %d", chunks[0].StartOffset)
	}
}

func TestSplit_OffsetsAndSizeBound(t *testing.T) {
	c := NewRecursiveChunker(100, 20)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if len(ch.Text) > 100 {
			t.Errorf("chunk %d exceeds size: %d bytes", i, len(ch.Text))
		}
		if got := text[ch.StartOffset : ch.StartOffset+len(ch.Text)]; got != ch.Text {
			t.Errorf("chunk %d text does not match its offset into the source", i)
		}
		if i > 0 && ch.StartOffset <= chunks[i-1].StartOffset {
			t.Errorf("chunk %d does not advance: offset %d after %d", i, ch.StartOffset, chunks[i-1].StartOffset)
		}
	}

	// The last chunk must reach the end of the text.
	last := chunks[len(chunks)-1]
	if last.StartOffset+len(last.Text) != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.StartOffset+len(last.Text), len(text))
	}
}

func TestSplit_ConsecutiveChunksOverlap(t *testing.T) {
	c := NewRecursiveChunker(100, 20)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	chunks := c.Split(text)
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		prevEnd := prev.StartOffset + len(prev.Text)
		if cur.StartOffset >= prevEnd {
			continue // overlap was given up to guarantee progress
		}
		shared := text[cur.StartOffset:prevEnd]
		if !strings.HasSuffix(prev.Text, shared) || !strings.HasPrefix(cur.Text, shared) {
			t.Errorf("chunks %d and %d do not share the overlap region", i-1, i)
		}
	}
}

func TestSplit_SentenceDocumentThreeChunks(t *testing.T) {
	c := NewRecursiveChunker(1000, 200)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 54) // 2430 bytes

	chunks := c.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	if chunks[0].StartOffset != 0 {
		t.Errorf("expected first chunk at offset 0, got %d", chunks[0].StartOffset)
	}
	if chunks[1].StartOffset < 700 || chunks[1].StartOffset > 900 {
		t.Errorf("expected second chunk near offset 800, got %d", chunks[1].StartOffset)
	}
	if chunks[2].StartOffset < 1500 || chunks[2].StartOffset > 1700 {
		t.Errorf("expected third chunk near offset 1600, got %d", chunks[2].StartOffset)
	}
	if len(chunks[2].Text) >= 1000 {
		t.Errorf("expected a short final chunk, got %d bytes", len(chunks[2].Text))
	}

	// Cuts should land on sentence boundaries, not mid-word.
	for i := 0; i < 2; i++ {
		if !strings.HasSuffix(chunks[i].Text, ". ") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, chunks[i].Text[len(chunks[i].Text)-10:])
		}
	}
}

func TestSplit_NoSeparatorsForcesCut(t *testing.T) {
	c := NewRecursiveChunker(1000, 200)
	text := strings.Repeat("a", 2500)

	chunks := c.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := []int{0, 800, 1600}
	for i, ch := range chunks {
		if ch.StartOffset != want[i] {
			t.Errorf("chunk %d: expected offset %d, got %d", i, want[i], ch.StartOffset)
		}
	}
	if len(chunks[2].Text) != 900 {
		t.Errorf("expected final chunk of 900 bytes, got %d", len(chunks[2].Text))
	}
}

func TestSplit_ForcedCutRespectsRuneBoundaries(t *testing.T) {
	c := NewRecursiveChunker(100, 20)
	text := strings.Repeat("é", 200) // 2-byte runes, no separators

	chunks := c.Split(text)
	for i, ch := range chunks {
		if !strings.HasPrefix(ch.Text, "é") || !strings.HasSuffix(ch.Text, "é") {
			t.Errorf("chunk %d cut inside a rune", i)
		}
	}
}

func TestSplit_MultibyteChunksStayValidUTF8(t *testing.T) {
	// 3-byte runes: the overlap rewind lands mid-rune unless it backs
	// off to a rune start, since neither 1000 nor 200 is a multiple of 3.
	c := NewRecursiveChunker(1000, 200)
	text := strings.Repeat("日", 900)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Text) {
			t.Errorf("chunk %d starting at offset %d is not valid UTF-8", i, ch.StartOffset)
		}
		if !utf8.RuneStart(text[ch.StartOffset]) {
			t.Errorf("chunk %d starts mid-rune at offset %d", i, ch.StartOffset)
		}
	}

	last := chunks[len(chunks)-1]
	if last.StartOffset+len(last.Text) != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.StartOffset+len(last.Text), len(text))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := NewRecursiveChunker(100, 20)
	text := strings.Repeat("Policy renewals are processed within ten business days.\n", 30)

	first := c.Split(text)
	second := c.Split(text)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical input")
	}
}
