package rag

import (
	"strings"
	"testing"
)

func TestPromptFormatFillsPlaceholders(t *testing.T) {
	p, err := NewPromptTemplate("")
	if err != nil {
		t.Fatalf("NewPromptTemplate: %v", err)
	}
	out := p.Format("chunk one\n\nchunk two", "what is {context}?")
	if !strings.Contains(out, "Context: chunk one\n\nchunk two\n") {
		t.Fatalf("context not substituted: %q", out)
	}
	if !strings.Contains(out, "Question: what is {context}?\n") {
		t.Fatalf("question not substituted verbatim: %q", out)
	}
	if !strings.HasSuffix(out, "Helpful answer:\n") {
		t.Fatalf("unexpected tail: %q", out)
	}
}

func TestNewPromptTemplateRequiresPlaceholders(t *testing.T) {
	if _, err := NewPromptTemplate("Question: {question}"); err == nil {
		t.Fatalf("expected missing {context} error")
	}
	if _, err := NewPromptTemplate("Context: {context}"); err == nil {
		t.Fatalf("expected missing {question} error")
	}
	p, err := NewPromptTemplate("{context}|{question}")
	if err != nil {
		t.Fatalf("custom template: %v", err)
	}
	if got := p.Format("c", "q"); got != "c|q" {
		t.Fatalf("Format: %q", got)
	}
}

func TestStuffDocuments(t *testing.T) {
	got := StuffDocuments([]Match{{Content: "a"}, {Content: "b"}})
	if got != "a\n\nb" {
		t.Fatalf("StuffDocuments: %q", got)
	}
	if StuffDocuments(nil) != "" {
		t.Fatalf("empty should be empty")
	}
}
