package rag

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustSplitter(t *testing.T, size, overlap int) *RecursiveCharacterSplitter {
	t.Helper()
	s, err := NewRecursiveCharacterSplitter(size, overlap, nil)
	if err != nil {
		t.Fatalf("NewRecursiveCharacterSplitter: %v", err)
	}
	return s
}

func TestSplitTextCases(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
		text    string
		want    []string
	}{
		{
			name: "words without overlap",
			size: 10, overlap: 3,
			text: "aaaa bbbb cccc dddd",
			want: []string{"aaaa bbbb", "cccc dddd"},
		},
		{
			name: "words with overlap",
			size: 10, overlap: 5,
			text: "aaaa bbbb cccc dddd",
			want: []string{"aaaa bbbb", "bbbb cccc", "cccc dddd"},
		},
		{
			name: "paragraphs first",
			size: 20, overlap: 0,
			text: "para one here\n\npara two here",
			want: []string{"para one here", "para two here"},
		},
		{
			name: "no separators falls back to characters",
			size: 5, overlap: 0,
			text: "abcdefghij",
			want: []string{"abcde", "fghij"},
		},
		{
			name: "counts runes not bytes",
			size: 3, overlap: 0,
			text: "ééééé",
			want: []string{"ééé", "éé"},
		},
		{
			name: "recurses into long paragraphs",
			size: 10, overlap: 0,
			text: "short\n\nthis is a longer paragraph",
			want: []string{"short", "this is a", "longer", "paragraph"},
		},
		{
			name: "empty",
			size: 10, overlap: 0,
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			size: 10, overlap: 0,
			text: "   \n\n  ",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustSplitter(t, tc.size, tc.overlap).SplitText(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitText(%q):\n got=%q\nwant=%q", tc.text, got, tc.want)
			}
		})
	}
}

func TestSplitTextRespectsChunkSize(t *testing.T) {
	s := mustSplitter(t, 500, 50)
	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString("lorem ipsum dolor sit amet ")
		if i%25 == 0 {
			b.WriteString("\n\n")
		} else if i%7 == 0 {
			b.WriteString("\n")
		}
	}
	chunks := s.SplitText(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 500 {
			t.Fatalf("chunk %d has %d runes", i, n)
		}
		if c != strings.TrimSpace(c) {
			t.Fatalf("chunk %d not trimmed: %q", i, c)
		}
	}
}

func TestSplitDocumentsCopiesMetadata(t *testing.T) {
	s := mustSplitter(t, 10, 0)
	docs := []Document{
		{PageContent: "aaaa bbbb cccc", Metadata: Metadata{Source: "/x/a.pdf", Page: 3}},
		{PageContent: "", Metadata: Metadata{Source: "/x/a.pdf", Page: 4}},
	}
	out := s.SplitDocuments(docs)
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(out), out)
	}
	for _, d := range out {
		if d.Metadata.Page != 3 || d.Metadata.Source != "/x/a.pdf" {
			t.Fatalf("metadata not copied: %+v", d.Metadata)
		}
	}
}

func TestNewRecursiveCharacterSplitterValidates(t *testing.T) {
	if _, err := NewRecursiveCharacterSplitter(0, 0, nil); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := NewRecursiveCharacterSplitter(10, 10, nil); err == nil {
		t.Fatalf("expected error for overlap >= size")
	}
}
