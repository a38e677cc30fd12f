package textsplitter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyInput(t *testing.T) {
	s := NewRecursiveSplitter(500, 50)

	for _, text := range []string{"", "   ", "\n\n\t  \n"} {
		if got := s.Split(text); got != nil {
			t.Errorf("Split(%q) = %v, want nil", text, got)
		}
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewRecursiveSplitter(500, 50)

	got := s.Split("hello world")
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("Split = %v, want [hello world]", got)
	}
}

func TestSplitMergesParagraphsUnderLimit(t *testing.T) {
	s := NewRecursiveSplitter(500, 50)

	got := s.Split("para one\n\npara two")
	if len(got) != 1 || got[0] != "para one\n\npara two" {
		t.Fatalf("Split = %v, want the paragraphs packed into one chunk", got)
	}
}

func TestSplitOnWords(t *testing.T) {
	s := NewRecursiveSplitter(10, 0)

	got := s.Split("aaaa bbbb cccc")
	want := []string{"aaaa bbbb", "cccc"}
	if len(got) != len(want) {
		t.Fatalf("Split = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitOverlapCarriesTrailingWords(t *testing.T) {
	s := NewRecursiveSplitter(12, 5)

	got := s.Split("aa bb cc dd ee")
	want := []string{"aa bb cc dd", "cc dd ee"}
	if len(got) != len(want) {
		t.Fatalf("Split = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitFallsBackToCharacters(t *testing.T) {
	s := NewRecursiveSplitter(5, 1)

	got := s.Split("abcdefghij")
	want := []string{"abcde", "efghi", "ij"}
	if len(got) != len(want) {
		t.Fatalf("Split = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	s := NewRecursiveSplitter(3, 0)

	// Five two-byte runes; a byte-based splitter would cut mid-rune.
	got := s.Split("ααααα")
	for _, chunk := range got {
		if utf8.RuneCountInString(chunk) > 3 {
			t.Errorf("chunk %q has %d runes, want <= 3", chunk, utf8.RuneCountInString(chunk))
		}
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %q is not valid UTF-8", chunk)
		}
	}
	if joined := strings.Join(got, ""); utf8.RuneCountInString(joined) < 5 {
		t.Errorf("chunks lost content: %v", got)
	}
}

func TestSplitRespectsSizeOnLongText(t *testing.T) {
	s := NewRecursiveSplitter(100, 20)

	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("the quick brown fox jumps over the lazy dog ")
		if i%7 == 0 {
			sb.WriteString("\n\n")
		}
	}

	chunks := s.Split(sb.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 100 {
			t.Errorf("chunk %d has %d runes, want <= 100", i, utf8.RuneCountInString(chunk))
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}
