package rag

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.ChunkSize != 500 || s.ChunkOverlap != 50 || s.TopK != 2 || s.Glob != "*.pdf" {
		t.Fatalf("defaults: %+v", s)
	}
	if s.PromptTemplate != DefaultPromptTemplate {
		t.Fatalf("default prompt not used")
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag.yaml")
	body := "chunk_size: 800\nchunk_overlap: 100\ntop_k: 4\nprompt_template: |\n  Q={question} C={context}\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.ChunkSize != 800 || s.ChunkOverlap != 100 || s.TopK != 4 {
		t.Fatalf("overrides: %+v", s)
	}
	p, err := s.Prompt()
	if err != nil {
		t.Fatalf("Prompt: %v", err)
	}
	if got := p.Format("c", "q"); got != "Q=q C=c\n" {
		t.Fatalf("Format: %q", got)
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"overlap.yaml": "chunk_size: 100\nchunk_overlap: 100\n",
		"prompt.yaml":  "prompt_template: no placeholders\n",
		"broken.yaml":  "chunk_size: [\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadSettings(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := LoadSettings(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("missing file: expected error")
	}
}
