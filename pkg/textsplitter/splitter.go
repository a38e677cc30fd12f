package textsplitter

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the recursive fallback order: paragraph breaks, line
// breaks, spaces, then raw characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter cuts text into chunks of at most chunkSize characters with
// the given overlap between neighbours. It prefers to cut on the coarsest
// separator that still yields pieces under the size limit, recursing to finer
// separators for oversized pieces.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewRecursiveSplitter(chunkSize, overlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &RecursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: DefaultSeparators,
	}
}

func (s *RecursiveSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.separators)
}

func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			remaining = nil
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var splits []string
	if separator == "" {
		for _, r := range text {
			splits = append(splits, string(r))
		}
	} else {
		splits = strings.Split(text, separator)
	}

	var chunks []string
	var fitting []string
	for _, piece := range splits {
		if piece == "" {
			continue
		}
		if runeLen(piece) < s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting, separator)...)
			fitting = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.splitText(piece, remaining)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting, separator)...)
	}
	return chunks
}

// merge greedily packs splits into chunks up to chunkSize, carrying the last
// splits forward so neighbouring chunks share at least overlap characters.
func (s *RecursiveSplitter) merge(splits []string, separator string) []string {
	sepLen := runeLen(separator)

	var chunks []string
	var window []string
	total := 0

	for _, piece := range splits {
		pieceLen := runeLen(piece)
		if len(window) > 0 && total+pieceLen+sepLen > s.chunkSize {
			if chunk := joinTrimmed(window, separator); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+pieceLen+sepLen > s.chunkSize && total > 0) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, piece)
		total += pieceLen
	}

	if chunk := joinTrimmed(window, separator); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func joinTrimmed(parts []string, separator string) string {
	return strings.TrimSpace(strings.Join(parts, separator))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
