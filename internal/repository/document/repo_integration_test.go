package document

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gauravkeywords/gameloft/internal/db/postgres"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
)

// setupTestDB starts a pgvector container and returns a migrated store.
// Tests are skipped if no container runtime is available.
func setupTestDB(t *testing.T) *postgres.Store {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"pgvector/pgvector:pg16",
		pgmodule.WithDatabase("newsrank_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := postgres.New(ctx, postgres.Config{DSN: dsn, MaxConns: 4, MinConns: 1}, nil)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.WaitForReady(ctx, 30*time.Second); err != nil {
		t.Fatalf("waiting for database: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	// Second run is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("re-migrating: %v", err)
	}
	return store
}

func mustInsert(t *testing.T, repo *Repo, date any, emb ...float32) domdoc.Document {
	t.Helper()
	meta := map[string]any{"title": "t", "source": "gameloft.com"}
	if date != nil {
		meta["date"] = date
	}
	doc, err := domdoc.New("content", meta, emb)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	stored, err := repo.Insert(context.Background(), doc)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return stored
}

func TestIntegration_FetchByDateRange(t *testing.T) {
	store := setupTestDB(t)
	repo := New(store.Pool())
	ctx := context.Background()

	inside := mustInsert(t, repo, "2024-01-15", 1, 0, 0)
	stamped := mustInsert(t, repo, "2024-01-31T22:10:00+02:00", 0, 1, 0)
	mustInsert(t, repo, "2023-12-31", 0, 0, 1)
	mustInsert(t, repo, "2024-02-01", 1, 1, 0)
	undated := mustInsert(t, repo, nil, 1, 0, 1)
	freeText := mustInsert(t, repo, "last week", 0, 1, 1)

	docs, err := repo.FetchByDateRange(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := []int64{inside.ID(), stamped.ID(), undated.ID(), freeText.ID()}
	if len(docs) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(docs))
	}
	for i := range docs {
		if docs[i].ID() != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], docs[i].ID())
		}
	}
	if got := docs[0].Embedding(); len(got) != 3 || got[0] != 1 {
		t.Errorf("embedding round-trip failed: %v", got)
	}
	if docs[0].Metadata()["source"] != "gameloft.com" {
		t.Errorf("metadata round-trip failed: %v", docs[0].Metadata())
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 documents, got %d", n)
	}
}
