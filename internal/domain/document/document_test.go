package document

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gauravkeywords/gameloft/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	meta := map[string]any{"date": "2024-01-28", "title": "Asphalt Legends Unite season update"}

	doc, err := New("Season 4 brings new cars", meta, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != 0 {
		t.Errorf("ID() = %d, want 0 before storing", doc.ID())
	}
	if doc.Content() != "Season 4 brings new cars" {
		t.Errorf("Content() = %q", doc.Content())
	}
	if doc.Metadata()["title"] != "Asphalt Legends Unite season update" {
		t.Errorf("Metadata() = %v", doc.Metadata())
	}
	if len(doc.Embedding()) != 2 {
		t.Errorf("Embedding() len = %d", len(doc.Embedding()))
	}
}

func TestNew_MetadataIsCopied(t *testing.T) {
	meta := map[string]any{"date": "2024-01-28"}
	doc, err := New("content", meta, []float32{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta["date"] = "1999-01-01"
	if doc.Metadata()["date"] != "2024-01-28" {
		t.Error("metadata must not alias the caller's map")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		emb     []float32
		wantErr string
	}{
		{"empty content", "", []float32{1}, "content is required"},
		{"too large", strings.Repeat("x", MaxContentSize+1), []float32{1}, "content too large"},
		{"no embedding", "text", nil, "embedding is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.content, nil, tt.emb)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithID(t *testing.T) {
	doc, _ := New("content", nil, []float32{1})
	stored := doc.WithID(42)
	if stored.ID() != 42 {
		t.Errorf("ID() = %d, want 42", stored.ID())
	}
	if doc.ID() != 0 {
		t.Error("WithID must not mutate the receiver")
	}
}

func TestContentDate(t *testing.T) {
	doc := Reconstruct(1, "c", map[string]any{"date": "2024-01-28T09:00:00Z"}, nil)
	day, err := doc.ContentDate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !day.Equal(time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ContentDate() = %v", day)
	}
}

func TestContentDate_DataIssues(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
	}{
		{"nil metadata", nil},
		{"missing date", map[string]any{"title": "x"}},
		{"null date", map[string]any{"date": nil}},
		{"numeric date", map[string]any{"date": 20240128.0}},
		{"garbage", map[string]any{"date": "last tuesday"}},
		{"empty", map[string]any{"date": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Reconstruct(9, "c", tt.meta, nil)
			_, err := doc.ContentDate()
			if !errors.Is(err, domain.ErrInvalidContentDate) {
				t.Fatalf("expected ErrInvalidContentDate, got %v", err)
			}
			var dateErr *domain.ContentDateError
			if !errors.As(err, &dateErr) || dateErr.DocumentID != 9 {
				t.Errorf("expected ContentDateError for document 9, got %v", err)
			}
		})
	}
}
