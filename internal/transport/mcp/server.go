// Package mcp exposes the search service as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	logpkg "github.com/gauravkeywords/gameloft/internal/logger"
	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
	searchuc "github.com/gauravkeywords/gameloft/internal/usecase/search"
	"github.com/gauravkeywords/gameloft/internal/version"
)

// Tool names.
const (
	ToolSearchContent        = "search_content"
	ToolTestVectorConnection = "test_vector_connection"
)

// Searcher runs semantic searches.
type Searcher interface {
	Search(ctx context.Context, p request.Params) (searchuc.Response, error)
}

// Prober reports document store reachability.
type Prober interface {
	Probe(ctx context.Context) healthuc.ProbeReport
}

// Config holds MCP tool defaults.
type Config struct {
	// DefaultThreshold applies when a tool call omits similarity_threshold.
	// Nil falls through to the search service default.
	DefaultThreshold *float64
}

// SearchInput is the search_content tool input.
type SearchInput struct {
	Query               string   `json:"query" jsonschema:"natural language question"`
	DateStart           string   `json:"date_start" jsonschema:"first day of the window, YYYY-MM-DD"`
	DateEnd             string   `json:"date_end" jsonschema:"last day of the window, YYYY-MM-DD"`
	Limit               *int     `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" jsonschema:"minimum cosine similarity, exclusive"`

	// Sent by workflow engines with every tool call; ignored.
	ToolCallID string `json:"toolCallId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Action     string `json:"action,omitempty"`
	ChatInput  string `json:"chatInput,omitempty"`
}

// SearchItem is one hit in the search_content output.
type SearchItem struct {
	ID          int64          `json:"id"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
	Similarity  float64        `json:"similarity"`
	ContentDate string         `json:"content_date"`
}

// SearchOutput is the search_content tool output.
type SearchOutput struct {
	Results []SearchItem `json:"results"`
}

// ProbeInput is the test_vector_connection tool input. It takes no arguments beyond the
// workflow engine fields.
type ProbeInput struct {
	ToolCallID string `json:"toolCallId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Action     string `json:"action,omitempty"`
	ChatInput  string `json:"chatInput,omitempty"`
}

type tools struct {
	search Searcher
	probe  Prober
	cfg    Config
	logger *zap.Logger
}

// NewServer creates an MCP server with the search tools registered.
func NewServer(search Searcher, probe Prober, cfg Config, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &tools{search: search, probe: probe, cfg: cfg, logger: logger}

	server := mcp.NewServer(&mcp.Implementation{Name: "newsrank", Version: version.Version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name: ToolSearchContent,
		Description: "Search news content semantically within a date range. " +
			"Recent articles rank higher; results are ordered by relevance.",
	}, t.searchContent)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolTestVectorConnection,
		Description: "Test the document store and vector search setup and return database info.",
	}, t.testVectorConnection)
	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func (t *tools) searchContent(
	ctx context.Context, _ *mcp.CallToolRequest, in SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	log := logpkg.FromContext(ctx, t.logger)

	start, err := calendar.Parse(in.DateStart)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("invalid date_start %q: %w", in.DateStart, err)
	}
	end, err := calendar.Parse(in.DateEnd)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("invalid date_end %q: %w", in.DateEnd, err)
	}

	threshold := in.SimilarityThreshold
	if threshold == nil {
		threshold = t.cfg.DefaultThreshold
	}

	resp, err := t.search.Search(searchuc.WithSource(ctx, searchuc.SourceMCP), request.Params{
		Query:     in.Query,
		StartDate: start,
		EndDate:   end,
		Threshold: threshold,
		Limit:     in.Limit,
	})
	if err != nil {
		log.Warn("search_content failed", zap.String("query", in.Query), zap.Error(err))
		return nil, SearchOutput{}, toolError(err)
	}

	out := SearchOutput{Results: make([]SearchItem, len(resp.Results))}
	for i := range resp.Results {
		r := &resp.Results[i]
		metadata := r.Metadata()
		if metadata == nil {
			metadata = map[string]any{}
		}
		out.Results[i] = SearchItem{
			ID:          r.ID(),
			Content:     r.Content(),
			Metadata:    metadata,
			Similarity:  r.Similarity(),
			ContentDate: calendar.Format(r.ContentDate()),
		}
	}

	log.Info("search_content completed",
		zap.String("date_start", calendar.Format(resp.StartDate)),
		zap.String("date_end", calendar.Format(resp.EndDate)),
		zap.Int("results", len(out.Results)),
	)
	return nil, out, nil
}

func (t *tools) testVectorConnection(
	ctx context.Context, _ *mcp.CallToolRequest, _ ProbeInput,
) (*mcp.CallToolResult, healthuc.ProbeReport, error) {
	return nil, t.probe.Probe(ctx), nil
}

// toolError keeps caller errors verbatim and reduces upstream failures to their category.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstream):
		for _, s := range []error{context.DeadlineExceeded, domain.ErrEmbeddingProviderError, domain.ErrDocumentStore} {
			if errors.Is(err, s) {
				return fmt.Errorf("search failed: %s", s.Error())
			}
		}
		return errors.New("search failed: upstream error")
	case errors.Is(err, domain.ErrValidation):
		return err
	default:
		return errors.New("search failed: internal error")
	}
}
