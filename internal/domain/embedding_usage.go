package domain

import "context"

type queryUsageKey struct{}

// QueryUsage is what encoding the text of one search cost. The surface serving the search
// attaches it to the context; the search service fills it in after the encoder answers.
// Searches that supply their own embedding leave it untouched.
type QueryUsage struct {
	Encoded      bool // the encoder ran, even when the cache answered with 0 tokens
	PromptTokens int
	TotalTokens  int
}

// WithQueryUsage returns a context carrying an empty QueryUsage.
func WithQueryUsage(ctx context.Context) (context.Context, *QueryUsage) {
	u := &QueryUsage{}
	return context.WithValue(ctx, queryUsageKey{}, u), u
}

// QueryUsageFromContext returns the attached QueryUsage, or nil.
func QueryUsageFromContext(ctx context.Context) *QueryUsage {
	u, _ := ctx.Value(queryUsageKey{}).(*QueryUsage)
	return u
}

// Record adds the token counts of one encoder call. A nil receiver ignores the call.
func (u *QueryUsage) Record(res EmbeddingResult) {
	if u == nil {
		return
	}
	u.Encoded = true
	u.PromptTokens += res.PromptTokens
	u.TotalTokens += res.TotalTokens
}
