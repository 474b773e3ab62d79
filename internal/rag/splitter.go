package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveCharacterSplitter splits text on the first separator that occurs, recursing into
// pieces that are still too long with the remaining separators, then merges small pieces back
// into chunks of at most ChunkSize runes with ChunkOverlap runes carried between neighbours.
// Separators are kept at the start of the piece that follows them.
type RecursiveCharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func NewRecursiveCharacterSplitter(chunkSize, chunkOverlap int, separators []string) (*RecursiveCharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", chunkOverlap, chunkSize)
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &RecursiveCharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   append([]string(nil), separators...),
	}, nil
}

// SplitDocuments splits every document, copying its metadata onto each chunk.
func (s *RecursiveCharacterSplitter) SplitDocuments(docs []Document) []Document {
	var out []Document
	for _, d := range docs {
		for _, chunk := range s.SplitText(d.PageContent) {
			out = append(out, Document{PageContent: chunk, Metadata: d.Metadata})
		}
	}
	return out
}

func (s *RecursiveCharacterSplitter) SplitText(text string) []string {
	return s.splitText(text, s.Separators)
}

func (s *RecursiveCharacterSplitter) splitText(text string, separators []string) []string {
	var final []string

	separator := ""
	if len(separators) > 0 {
		separator = separators[len(separators)-1]
	}
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good, "")...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good, "")...)
	}
	return final
}

func (s *RecursiveCharacterSplitter) mergeSplits(splits []string, separator string) []string {
	sepLen := runeLen(separator)
	var docs []string
	var current []string
	total := 0

	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, d := range splits {
		l := runeLen(d)
		if total+l+joinLen() > s.ChunkSize {
			if len(current) > 0 {
				if doc, ok := joinDocs(current, separator); ok {
					docs = append(docs, doc)
				}
				for total > s.ChunkOverlap || (total+l+joinLen() > s.ChunkSize && total > 0) {
					drop := runeLen(current[0])
					if len(current) > 1 {
						drop += sepLen
					}
					total -= drop
					current = current[1:]
				}
			}
		}
		current = append(current, d)
		total += l
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc, ok := joinDocs(current, separator); ok {
		docs = append(docs, doc)
	}
	return docs
}

func splitKeepingSeparator(text, separator string) []string {
	var raw []string
	if separator == "" {
		raw = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			raw = append(raw, string(r))
		}
	} else {
		parts := strings.Split(text, separator)
		raw = make([]string, 0, len(parts))
		raw = append(raw, parts[0])
		for _, p := range parts[1:] {
			raw = append(raw, separator+p)
		}
	}
	out := raw[:0]
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinDocs(parts []string, separator string) (string, bool) {
	text := strings.TrimSpace(strings.Join(parts, separator))
	return text, text != ""
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
