package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyQuestion = errors.New("question is empty")

// RetrievalQA answers a question from the TopK most similar chunks of one namespace.
type RetrievalQA struct {
	Embedder Embedder
	Index    VectorIndex
	Prompt   PromptTemplate
	TopK     int
}

type Result struct {
	Answer  string
	Sources []Match
	Prompt  string
}

func (qa *RetrievalQA) Run(ctx context.Context, gen Generator, namespace, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if gen == nil {
		return nil, fmt.Errorf("retrieval qa: generator is nil")
	}
	k := qa.TopK
	if k <= 0 {
		k = 2
	}

	vecs, err := qa.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed question: expected 1 vector, got %d", len(vecs))
	}

	matches, err := qa.Index.Search(ctx, namespace, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	// an index built from a folder with no readable text has nothing to ground an answer on
	if len(matches) == 0 {
		return nil, ErrIndexNotFound
	}

	prompt := qa.Prompt.Format(StuffDocuments(matches), question)
	answer, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &Result{Answer: strings.TrimSpace(answer), Sources: matches, Prompt: prompt}, nil
}
