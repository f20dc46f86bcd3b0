package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gauravkeywords/gameloft/internal/domain"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
)

// maxLineBytes fits a 160KB chunk plus a 1024-dim embedding in JSON.
const maxLineBytes = 4 << 20

// documentLine is one JSONL input record.
type documentLine struct {
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding"`
}

// decodeDocuments reads JSONL documents and calls fn for each. Blank lines are skipped.
// dimensions > 0 rejects embeddings of another length. Decoding stops at the first bad
// line; its line number is in the error.
func decodeDocuments(r io.Reader, dimensions int, fn func(domdoc.Document) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var in documentLine
		if err := json.Unmarshal([]byte(text), &in); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if dimensions > 0 && len(in.Embedding) != dimensions {
			return fmt.Errorf("line %d: %w", line, domain.NewDimensionMismatch(dimensions, len(in.Embedding)))
		}
		doc, err := domdoc.New(in.Content, in.Metadata, in.Embedding)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(doc); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
