package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gauravkeywords/gameloft/internal/app"
	"github.com/gauravkeywords/gameloft/internal/config"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	logpkg "github.com/gauravkeywords/gameloft/internal/logger"
	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
	searchuc "github.com/gauravkeywords/gameloft/internal/usecase/search"
)

type searcher interface {
	Search(ctx context.Context, p request.Params) (searchuc.Response, error)
}

type prober interface {
	Probe(ctx context.Context) healthuc.ProbeReport
}

type inserter interface {
	Insert(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
}

// backend is the slice of the stack the commands use.
type backend struct {
	search     searcher
	probe      prober
	documents  inserter
	dimensions int
	close      func()
}

type connectFunc func(ctx context.Context, c *cli.Context) (*backend, error)

// connectStack loads configuration and builds the full stack.
func connectStack(ctx context.Context, c *cli.Context) (*backend, error) {
	env := c.String("env")

	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err //nolint:wrapcheck // already descriptive
	}

	return &backend{
		search:     a.Search,
		probe:      a.Health,
		documents:  a.Documents,
		dimensions: cfg.Search.Dimensions,
		close: func() {
			a.Close()
			_ = logger.Sync()
		},
	}, nil
}

type runner struct {
	out     io.Writer
	connect connectFunc
}

// searchItem mirrors the API result item.
type searchItem struct {
	ID          int64          `json:"id"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
	Similarity  float64        `json:"similarity"`
	ContentDate string         `json:"content_date"`
}

type searchOutput struct {
	Items     []searchItem `json:"items"`
	Total     int          `json:"total"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
}

func (r *runner) search(c *cli.Context) error {
	query := c.String("query")
	if query == "" {
		query = c.Args().First()
	}
	if query == "" {
		return fmt.Errorf("query is required (--query or first argument)")
	}

	start, err := calendar.Parse(c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := calendar.Parse(c.String("end"))
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	p := request.Params{Query: query, StartDate: start, EndDate: end}
	if c.IsSet("threshold") {
		v := c.Float64("threshold")
		p.Threshold = &v
	}
	if c.IsSet("limit") {
		v := c.Int("limit")
		p.Limit = &v
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := r.connect(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	resp, err := b.search.Search(searchuc.WithSource(ctx, searchuc.SourceCLI), p)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := searchOutput{
		Items:     make([]searchItem, len(resp.Results)),
		Total:     len(resp.Results),
		StartDate: calendar.Format(resp.StartDate),
		EndDate:   calendar.Format(resp.EndDate),
	}
	for i := range resp.Results {
		res := &resp.Results[i]
		out.Items[i] = searchItem{
			ID:          res.ID(),
			Content:     res.Content(),
			Metadata:    res.Metadata(),
			Similarity:  res.Similarity(),
			ContentDate: calendar.Format(res.ContentDate()),
		}
	}
	return r.printJSON(out)
}

func (r *runner) status(c *cli.Context) error {
	b, err := r.connect(c.Context, c)
	if err != nil {
		return err
	}
	defer b.close()

	report := b.probe.Probe(c.Context)
	if err := r.printJSON(report); err != nil {
		return err
	}
	if report.Status != healthuc.ProbeSuccess {
		return cli.Exit("document store probe failed", 2)
	}
	return nil
}

func (r *runner) load(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("input file is required (use - for stdin)")
	}

	var in io.Reader = c.App.Reader
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := r.connect(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	loaded := 0
	err = decodeDocuments(in, b.dimensions, func(doc domdoc.Document) error {
		if _, err := b.documents.Insert(ctx, doc); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		loaded++
		return nil
	})
	fmt.Fprintf(c.App.ErrWriter, "loaded %d documents\n", loaded)
	return err
}

func (r *runner) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
