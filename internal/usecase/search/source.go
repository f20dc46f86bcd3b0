package search

import "context"

type sourceKey struct{}

// Request sources, used as a metrics label.
const (
	SourceHTTP    = "http"
	SourceMCP     = "mcp"
	SourceCLI     = "cli"
	SourceProbe   = "probe"
	SourceSDK     = "sdk"
	sourceUnknown = "unknown"
)

// WithSource tags ctx with the surface a search came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFromContext returns the tagged source, or "unknown".
func SourceFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return sourceUnknown
}
