// Package newsrank embeds the newsrank search engine in a Go program.
//
// Documents live in PostgreSQL (pgvector). A query is encoded by the configured
// Embedder, matched against the documents of a date window by cosine similarity,
// and ordered by a recency-boosted score:
//
//	client, _ := newsrank.New(ctx,
//	    newsrank.WithPostgres("postgres://localhost:5432/news"),
//	    newsrank.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, newsrank.SearchRequest{
//	    Query:     "asphalt legends season update",
//	    StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
//	    EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
//	})
package newsrank
