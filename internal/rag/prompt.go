package rag

import (
	"fmt"
	"strings"
)

const (
	placeholderContext  = "{context}"
	placeholderQuestion = "{question}"
)

// DefaultPromptTemplate is the question-answering prompt used unless settings override it.
const DefaultPromptTemplate = "Use the following pieces of information to answer the user's question.\n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"\n" +
	"if the user doesn't ask for a link, return the answer from the context and the question, if you did not find the answer in the context, \n" +
	"try to answer it from your own knowledge, but make sure to mention that you are answering from your own knowledge.\n" +
	"\n" +
	"Context: {context}\n" +
	"Question: {question}\n" +
	"\n" +
	"If the user asks for a link, only return the link from the context, and nothing else. and the user will ask it like\n" +
	"open this or that or get me the link to this or that.\n" +
	"\n" +
	"Helpful answer:\n"

type PromptTemplate struct {
	Template string
}

func NewPromptTemplate(tmpl string) (PromptTemplate, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPromptTemplate
	}
	for _, p := range []string{placeholderContext, placeholderQuestion} {
		if !strings.Contains(tmpl, p) {
			return PromptTemplate{}, fmt.Errorf("prompt template is missing %s", p)
		}
	}
	return PromptTemplate{Template: tmpl}, nil
}

// Format substitutes both placeholders in one pass, so braces inside the values are left alone.
func (p PromptTemplate) Format(context, question string) string {
	tmpl := p.Template
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	return strings.NewReplacer(placeholderContext, context, placeholderQuestion, question).Replace(tmpl)
}

// StuffDocuments joins chunk texts the way the "stuff" chain fills {context}.
func StuffDocuments(matches []Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n")
}
