// Package rank scores, filters and orders candidate documents against a query embedding.
//
// Ranking is a pure function of its inputs: no I/O, no shared mutable state. A Ranker may be
// used from any number of goroutines.
package rank

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"time"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
	"github.com/gauravkeywords/gameloft/internal/domain/search/result"
)

// Query holds everything the ranker needs besides the candidates.
type Query struct {
	Embedding []float32
	StartDate time.Time
	EndDate   time.Time
	Threshold float64
	Limit     int
}

// Ranking is the ranker output.
type Ranking struct {
	// Results are ordered by boosted score desc, similarity desc, id asc.
	Results []result.Result
	// DataIssues lists candidates skipped because their content date could not be parsed.
	DataIssues []*domain.ContentDateError

	Candidates     int
	OutOfWindow    int
	BelowThreshold int
}

// Ranker applies cosine similarity, a strict threshold and recency boosting.
type Ranker struct {
	tiers []Tier
}

// New creates a Ranker with the given boost tiers (copied). Nil tiers means no boosting.
func New(tiers []Tier) (*Ranker, error) {
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return &Ranker{tiers: slices.Clone(tiers)}, nil
}

// MustNew is New that panics on invalid tiers.
func MustNew(tiers []Tier) *Ranker {
	r, err := New(tiers)
	if err != nil {
		panic(err)
	}
	return r
}

// Tiers returns a copy of the boost schedule.
func (r *Ranker) Tiers() []Tier { return slices.Clone(r.tiers) }

// Multiplier returns the boost applied to content ageDays before the window end.
func (r *Ranker) Multiplier(ageDays int) float64 { return multiplier(r.tiers, ageDays) }

type scored struct {
	doc        *domdoc.Document
	day        time.Time
	similarity float64
	boosted    float64
}

// Rank scores the candidates against q.
//
// Every candidate must have an embedding of the query's dimension, otherwise the whole call
// fails with *domain.DimensionMismatchError. Candidates with unparseable dates are skipped and
// reported in Ranking.DataIssues.
func (r *Ranker) Rank(q Query, candidates []domdoc.Document) (Ranking, error) {
	if len(q.Embedding) == 0 {
		return Ranking{}, domain.Validationf("query embedding is empty")
	}
	if q.Limit <= 0 {
		return Ranking{}, domain.Validationf("result_limit must be > 0, got %d", q.Limit)
	}
	start, end := calendar.Day(q.StartDate), calendar.Day(q.EndDate)
	if start.After(end) {
		return Ranking{}, domain.Validationf("start_date %s is after end_date %s",
			calendar.Format(start), calendar.Format(end))
	}

	dim := len(q.Embedding)
	for i := range candidates {
		if got := len(candidates[i].Embedding()); got != dim {
			return Ranking{}, &domain.DimensionMismatchError{
				DocumentID: candidates[i].ID(), Expected: dim, Got: got,
			}
		}
	}

	queryNorm := norm(q.Embedding)
	out := Ranking{Candidates: len(candidates)}
	kept := make([]scored, 0, len(candidates))

	for i := range candidates {
		doc := &candidates[i]

		day, err := doc.ContentDate()
		if err != nil {
			var dateErr *domain.ContentDateError
			if errors.As(err, &dateErr) {
				out.DataIssues = append(out.DataIssues, dateErr)
			}
			continue
		}
		if day.Before(start) || day.After(end) {
			out.OutOfWindow++
			continue
		}

		sim := cosine(q.Embedding, queryNorm, doc.Embedding())
		if !(sim > q.Threshold) {
			out.BelowThreshold++
			continue
		}

		kept = append(kept, scored{
			doc:        doc,
			day:        day,
			similarity: sim,
			boosted:    sim * r.Multiplier(calendar.DaysBetween(day, end)),
		})
	}

	slices.SortFunc(kept, func(a, b scored) int {
		if c := cmp.Compare(b.boosted, a.boosted); c != 0 {
			return c
		}
		if c := cmp.Compare(b.similarity, a.similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.doc.ID(), b.doc.ID())
	})

	if len(kept) > q.Limit {
		kept = kept[:q.Limit]
	}

	out.Results = make([]result.Result, len(kept))
	for i, s := range kept {
		out.Results[i] = result.New(s.doc.ID(), s.doc.Content(), s.doc.Metadata(), s.similarity, s.day)
	}
	return out, nil
}

// cosine returns (a·b)/(‖a‖‖b‖), i.e. 1 - cosine distance. A zero vector has similarity 0
// to everything.
func cosine(a []float32, aNorm float64, b []float32) float64 {
	bNorm := norm(b)
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
