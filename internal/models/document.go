// Package models defines core data structures for candidate documents,
// ranking queries, and conversation turns.
package models

import "time"

// Document represents an ingested candidate document (a resume) with metadata.
// Documents are immutable after ingestion; re-ingesting the same source file
// replaces the document under the same ID.
type Document struct {
	ID        string                 `json:"id" db:"id"`
	Source    string                 `json:"source" db:"source"`
	Content   string                 `json:"content" db:"content"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentChunk is a bounded slice of a document's text, embedded
// independently for retrieval granularity finer than whole documents.
// Every chunk in an index carries an embedding of that index's dimension.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for creating or replacing a document.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Source   string                 `json:"source,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
