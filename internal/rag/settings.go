package rag

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings tunes loading, splitting and retrieval. Zero values fall back to DefaultSettings.
type Settings struct {
	Glob           string   `yaml:"glob"`
	ChunkSize      int      `yaml:"chunk_size"`
	ChunkOverlap   int      `yaml:"chunk_overlap"`
	Separators     []string `yaml:"separators"`
	TopK           int      `yaml:"top_k"`
	PromptTemplate string   `yaml:"prompt_template"`
	EmbedBatchSize int      `yaml:"embed_batch_size"`
}

func DefaultSettings() Settings {
	return Settings{
		Glob:           "*.pdf",
		ChunkSize:      500,
		ChunkOverlap:   50,
		Separators:     append([]string(nil), DefaultSeparators...),
		TopK:           2,
		PromptTemplate: DefaultPromptTemplate,
		EmbedBatchSize: 32,
	}
}

// LoadSettings reads YAML overrides from path. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read rag settings: %w", err)
	}
	var over Settings
	if err := yaml.Unmarshal(raw, &over); err != nil {
		return Settings{}, fmt.Errorf("parse rag settings %s: %w", path, err)
	}
	s.merge(over)
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("rag settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) merge(o Settings) {
	if o.Glob != "" {
		s.Glob = o.Glob
	}
	if o.ChunkSize > 0 {
		s.ChunkSize = o.ChunkSize
	}
	if o.ChunkOverlap > 0 {
		s.ChunkOverlap = o.ChunkOverlap
	}
	if len(o.Separators) > 0 {
		s.Separators = o.Separators
	}
	if o.TopK > 0 {
		s.TopK = o.TopK
	}
	if strings.TrimSpace(o.PromptTemplate) != "" {
		s.PromptTemplate = o.PromptTemplate
	}
	if o.EmbedBatchSize > 0 {
		s.EmbedBatchSize = o.EmbedBatchSize
	}
}

func (s Settings) Validate() error {
	if _, err := NewRecursiveCharacterSplitter(s.ChunkSize, s.ChunkOverlap, s.Separators); err != nil {
		return err
	}
	if _, err := NewPromptTemplate(s.PromptTemplate); err != nil {
		return err
	}
	if s.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if s.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed_batch_size must be positive")
	}
	return nil
}

func (s Settings) Splitter() (*RecursiveCharacterSplitter, error) {
	return NewRecursiveCharacterSplitter(s.ChunkSize, s.ChunkOverlap, s.Separators)
}

func (s Settings) Prompt() (PromptTemplate, error) {
	return NewPromptTemplate(s.PromptTemplate)
}
