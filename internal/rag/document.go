package rag

// Metadata mirrors what the PDF loader attaches to each page.
type Metadata struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// Document is a piece of text with its origin. Pages and chunks share this shape.
type Document struct {
	PageContent string   `json:"page_content"`
	Metadata    Metadata `json:"metadata"`
}

// Entry is an embedded chunk as stored by a VectorIndex.
type Entry struct {
	ID       string    `json:"id"`
	Ordinal  int       `json:"ordinal"`
	Content  string    `json:"content"`
	Metadata Metadata  `json:"metadata"`
	Vector   []float32 `json:"vector,omitempty"`
}

// Match is a search hit. Higher Score is more similar.
type Match struct {
	ID       string   `json:"id"`
	Ordinal  int      `json:"ordinal"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score"`
}
