package document

import (
	"fmt"
	"time"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
)

// DateKey is the metadata key holding the publication date.
const DateKey = "date"

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is a stored news chunk (immutable value object).
// Metadata is expected to carry a "date" entry; see ContentDate.
type Document struct {
	id        int64
	content   string
	metadata  map[string]any
	embedding []float32
}

// New validates and creates a Document ready to be stored. The id is assigned by the store.
func New(content string, metadata map[string]any, embedding []float32) (Document, error) {
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if len(embedding) == 0 {
		return Document{}, fmt.Errorf("embedding is required")
	}
	return Document{
		content:   content,
		metadata:  cloneMetadata(metadata),
		embedding: embedding,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id int64, content string, metadata map[string]any, embedding []float32) Document {
	return Document{id: id, content: content, metadata: metadata, embedding: embedding}
}

// ID returns the document identifier.
func (d *Document) ID() int64 { return d.id }

// Content returns the document text content.
func (d *Document) Content() string { return d.content }

// Metadata returns the document metadata.
func (d *Document) Metadata() map[string]any { return d.metadata }

// Embedding returns the embedding vector.
func (d *Document) Embedding() []float32 { return d.embedding }

// WithID returns a copy carrying the store-assigned id.
func (d *Document) WithID(id int64) Document {
	return Document{id: id, content: d.content, metadata: d.metadata, embedding: d.embedding}
}

// ContentDate parses the calendar day from metadata["date"].
// Failures are reported as *domain.ContentDateError.
func (d *Document) ContentDate() (time.Time, error) {
	raw, ok := d.metadata[DateKey]
	if !ok || raw == nil {
		return time.Time{}, &domain.ContentDateError{DocumentID: d.id, Err: fmt.Errorf("missing %q", DateKey)}
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, &domain.ContentDateError{
			DocumentID: d.id, Raw: raw, Err: fmt.Errorf("expected string, got %T", raw),
		}
	}
	day, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}, &domain.ContentDateError{DocumentID: d.id, Raw: raw, Err: err}
	}
	return day, nil
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
