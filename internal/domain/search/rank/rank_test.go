package rank

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkeywords/gameloft/internal/domain"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func doc(id int64, date any, emb ...float32) domdoc.Document {
	meta := map[string]any{"title": "doc"}
	if date != nil {
		meta["date"] = date
	}
	return domdoc.Reconstruct(id, "content", meta, emb)
}

func january(threshold float64, limit int) Query {
	return Query{
		Embedding: []float32{1, 0},
		StartDate: day("2023-01-01"),
		EndDate:   day("2024-01-31"),
		Threshold: threshold,
		Limit:     limit,
	}
}

func ids(r Ranking) []int64 {
	out := make([]int64, len(r.Results))
	for i := range r.Results {
		out[i] = r.Results[i].ID()
	}
	return out
}

func TestMultiplier_DefaultTiers(t *testing.T) {
	r := MustNew(DefaultTiers())
	cases := []struct {
		age  int
		want float64
	}{
		{0, 1.3}, {7, 1.3}, {8, 1.1}, {30, 1.1}, {31, 1.0}, {365, 1.0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, r.Multiplier(c.age), "age %d", c.age)
	}
}

func TestNew_RejectsInvalidTiers(t *testing.T) {
	_, err := New([]Tier{{MaxAgeDays: 30, Multiplier: 1.1}, {MaxAgeDays: 7, Multiplier: 1.3}})
	require.Error(t, err)

	_, err = New([]Tier{{MaxAgeDays: 7, Multiplier: 0}})
	require.Error(t, err)

	_, err = New([]Tier{{MaxAgeDays: -1, Multiplier: 1.2}})
	require.Error(t, err)

	r, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Multiplier(0))
}

func TestRank_RecencyBoostReordersEqualSimilarity(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(1, "2023-12-01", 1, 0), // age 61, ×1.0
		doc(2, "2024-01-10", 1, 0), // age 21, ×1.1
		doc(3, "2024-01-28", 1, 0), // age 3, ×1.3
	}

	got, err := r.Rank(january(0.5, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(got))
	for i := range got.Results {
		assert.InDelta(t, 1.0, got.Results[i].Similarity(), 1e-12, "reported similarity is never boosted")
	}
}

func TestRank_BoostCanOvertakeHigherSimilarity(t *testing.T) {
	r := MustNew(DefaultTiers())
	// cos((1,0),(0.9,0.1)) ≈ 0.9939, cos((1,0),(1,0.5)) ≈ 0.8944
	candidates := []domdoc.Document{
		doc(1, "2023-06-01", 0.9, 0.1),
		doc(2, "2024-01-30", 1, 0.5),
	}

	got, err := r.Rank(january(0.5, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))
	assert.Greater(t, got.Results[1].Similarity(), got.Results[0].Similarity())
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	r := MustNew(DefaultTiers())
	// cos((1,0),(3,4)) = 3/5 = 0.6 exactly.
	candidates := []domdoc.Document{
		doc(1, "2024-01-30", 3, 4),
		doc(2, "2024-01-30", 4, 3), // 0.8
	}

	got, err := r.Rank(january(0.6, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))
	assert.Equal(t, 1, got.BelowThreshold)
}

func TestRank_WindowIsInclusive(t *testing.T) {
	r := MustNew(nil)
	q := january(0, 10)
	candidates := []domdoc.Document{
		doc(1, "2022-12-31", 1, 0),
		doc(2, "2023-01-01", 1, 0),
		doc(3, "2024-01-31T23:59:59Z", 1, 0),
		doc(4, "2024-02-01", 1, 0),
	}

	got, err := r.Rank(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))
	assert.Equal(t, 2, got.OutOfWindow)
	for i := range got.Results {
		d := got.Results[i].ContentDate()
		assert.False(t, d.Before(q.StartDate) || d.After(q.EndDate))
	}
}

func TestRank_SingleDayWindow(t *testing.T) {
	r := MustNew(DefaultTiers())
	q := Query{Embedding: []float32{1, 0}, StartDate: day("2024-01-15"), EndDate: day("2024-01-15"), Threshold: 0.1, Limit: 5}

	got, err := r.Rank(q, []domdoc.Document{doc(1, "2024-01-15", 1, 0), doc(2, "2024-01-16", 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))
}

func TestRank_EmptyCandidates(t *testing.T) {
	r := MustNew(DefaultTiers())
	got, err := r.Rank(january(0.5, 10), nil)
	require.NoError(t, err)
	assert.Empty(t, got.Results)
	assert.NotNil(t, got.Results)
}

func TestRank_LimitTruncatesAfterSorting(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(1, "2023-05-01", 1, 0),
		doc(2, "2024-01-29", 1, 0),
		doc(3, "2024-01-15", 1, 0),
	}

	got, err := r.Rank(january(0.5, 2), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestRank_TiesBrokenByID(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(9, "2024-01-20", 1, 1),
		doc(4, "2024-01-20", 1, 1),
		doc(6, "2024-01-20", 1, 1),
	}

	got, err := r.Rank(january(0.5, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 6, 9}, ids(got))
}

func TestRank_EqualBoostedScoreFavorsHigherSimilarity(t *testing.T) {
	r := MustNew([]Tier{{MaxAgeDays: 7, Multiplier: 2.0}})
	candidates := []domdoc.Document{
		doc(1, "2024-01-28", 4, 4, 7), // 4/9 × 2.0
		doc(2, "2023-12-01", 8, 1, 4), // 8/9 × 1.0
	}
	q := Query{
		Embedding: []float32{1, 0, 0},
		StartDate: day("2023-01-01"),
		EndDate:   day("2024-01-31"),
		Threshold: 0,
		Limit:     10,
	}

	got, err := r.Rank(q, candidates)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, ids(got))
	assert.InDelta(t, 8.0/9, got.Results[0].Similarity(), 1e-12)
	assert.InDelta(t, 4.0/9, got.Results[1].Similarity(), 1e-12)
}

func TestRank_Idempotent(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(1, "2024-01-02", 0.2, 0.9),
		doc(2, "2024-01-29", 0.7, 0.3),
		doc(3, "2023-07-14", 0.99, 0.05),
		doc(4, "not a date", 1, 0),
	}

	first, err := r.Rank(january(0.1, 10), candidates)
	require.NoError(t, err)
	second, err := r.Rank(january(0.1, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRank_DataIssuesAreExcludedNotFatal(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(1, "2024-01-20", 1, 0),
		doc(2, "last tuesday", 1, 0),
		doc(3, nil, 1, 0),
		doc(4, 20240120, 1, 0),
	}

	got, err := r.Rank(january(0.5, 10), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))
	require.Len(t, got.DataIssues, 3)
	for _, issue := range got.DataIssues {
		assert.True(t, errors.Is(issue, domain.ErrInvalidContentDate))
	}
	assert.Equal(t, []int64{2, 3, 4}, []int64{
		got.DataIssues[0].DocumentID, got.DataIssues[1].DocumentID, got.DataIssues[2].DocumentID,
	})
}

func TestRank_DimensionMismatchFailsWholeQuery(t *testing.T) {
	r := MustNew(DefaultTiers())
	candidates := []domdoc.Document{
		doc(1, "2024-01-20", 1, 0),
		doc(2, "2024-01-20", 1, 0, 0),
	}

	_, err := r.Rank(january(0.5, 10), candidates)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVectorDimMismatch)

	var dimErr *domain.DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, int64(2), dimErr.DocumentID)
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestRank_ZeroVectorMatchesNothing(t *testing.T) {
	r := MustNew(DefaultTiers())
	q := january(0, 1)
	q.Embedding = []float32{0, 0}

	got, err := r.Rank(q, []domdoc.Document{doc(1, "2024-01-20", 1, 0)})
	require.NoError(t, err)
	assert.Empty(t, got.Results)
}

func TestRank_InvalidQuery(t *testing.T) {
	r := MustNew(DefaultTiers())

	q := january(0.5, 0)
	_, err := r.Rank(q, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	q = january(0.5, 10)
	q.StartDate, q.EndDate = q.EndDate, q.StartDate
	_, err = r.Rank(q, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	q = january(0.5, 10)
	q.Embedding = nil
	_, err = r.Rank(q, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRank_ResultsSatisfyThresholdAndOrder(t *testing.T) {
	r := MustNew(DefaultTiers())
	var candidates []domdoc.Document
	for i := range 40 {
		angle := float64(i) * math.Pi / 80
		date := day("2023-11-01").AddDate(0, 0, i*2).Format("2006-01-02")
		candidates = append(candidates, doc(int64(i+1), date, float32(math.Cos(angle)), float32(math.Sin(angle))))
	}

	q := january(0.7, 15)
	got, err := r.Rank(q, candidates)
	require.NoError(t, err)
	require.LessOrEqual(t, len(got.Results), q.Limit)

	prev := math.Inf(1)
	for i := range got.Results {
		res := &got.Results[i]
		assert.Greater(t, res.Similarity(), q.Threshold)
		age := int(q.EndDate.Sub(res.ContentDate()).Hours() / 24)
		boosted := res.Similarity() * r.Multiplier(age)
		assert.LessOrEqual(t, boosted, prev+1e-12)
		prev = boosted
	}
}

func TestRanker_TiersIsACopy(t *testing.T) {
	r := MustNew(DefaultTiers())
	tiers := r.Tiers()
	tiers[0].Multiplier = 9

	assert.Equal(t, DefaultTiers(), r.Tiers())
	assert.InDelta(t, 1.3, r.Multiplier(0), 1e-12)
}
