package document

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/gauravkeywords/gameloft/internal/db"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
	"github.com/gauravkeywords/gameloft/internal/metrics"
)

// querier is the consumer interface for the pgx pool (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo reads and writes news documents in PostgreSQL.
type Repo struct {
	q querier
}

// New creates a document repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// Rows whose date has an ISO day prefix are filtered by window in SQL. Rows without one
// (missing, numeric, free text) are returned too so the ranker can report them.
const fetchByDateRangeSQL = `
	SELECT id, content, metadata, embedding
	FROM documents
	WHERE left(metadata->>'date', 10) BETWEEN $1 AND $2
	   OR coalesce(metadata->>'date', '') !~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}'
	ORDER BY id`

// FetchByDateRange returns the candidate snapshot for an inclusive day window, ordered by id.
func (r *Repo) FetchByDateRange(ctx context.Context, start, end time.Time) (docs []domdoc.Document, err error) {
	defer observe(db.OpFetch, time.Now(), &err)

	rows, err := r.q.Query(ctx, fetchByDateRangeSQL, calendar.Format(calendar.Day(start)), calendar.Format(calendar.Day(end)))
	if err != nil {
		return nil, &db.Error{Op: db.OpFetch, Err: err}
	}
	defer rows.Close()

	docs = []domdoc.Document{}
	for rows.Next() {
		var (
			id       int64
			content  string
			metaJSON []byte
			vec      pgvector.Vector
		)
		if err := rows.Scan(&id, &content, &metaJSON, &vec); err != nil {
			return nil, &db.Error{Op: db.OpFetch, Err: fmt.Errorf("scan row: %w", err)}
		}

		metadata, err := decodeMetadata(metaJSON)
		if err != nil {
			return nil, &db.Error{Op: db.OpFetch, Err: fmt.Errorf("document %d: %w", id, err)}
		}
		docs = append(docs, domdoc.Reconstruct(id, content, metadata, vec.Slice()))
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFetch, Err: err}
	}
	return docs, nil
}

// Count returns the total number of stored documents.
func (r *Repo) Count(ctx context.Context) (n int64, err error) {
	defer observe(db.OpCount, time.Now(), &err)

	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM documents").Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

// Insert stores a document and returns it with the assigned id.
func (r *Repo) Insert(ctx context.Context, doc domdoc.Document) (_ domdoc.Document, err error) {
	defer observe(db.OpInsert, time.Now(), &err)

	metaJSON, err := encodeMetadata(doc.Metadata())
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("marshal metadata: %w", err)
	}

	var id int64
	err = r.q.QueryRow(ctx,
		"INSERT INTO documents (content, metadata, embedding) VALUES ($1, $2, $3) RETURNING id",
		doc.Content(), metaJSON, pgvector.NewVector(doc.Embedding()),
	).Scan(&id)
	if err != nil {
		return domdoc.Document{}, &db.Error{Op: db.OpInsert, Err: err}
	}
	return doc.WithID(id), nil
}

func decodeMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func encodeMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m) //nolint:wrapcheck // caller wraps
}

func observe(op string, start time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
	}
	metrics.StoreQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
