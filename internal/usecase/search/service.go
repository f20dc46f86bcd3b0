package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/calendar"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
	"github.com/gauravkeywords/gameloft/internal/domain/search/rank"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	"github.com/gauravkeywords/gameloft/internal/domain/search/result"
	logpkg "github.com/gauravkeywords/gameloft/internal/logger"
	"github.com/gauravkeywords/gameloft/internal/metrics"
)

// Config carries the ranking defaults into the service.
type Config struct {
	Dimensions int
	Defaults   request.Defaults
}

// Response is a completed search.
type Response struct {
	Results    []result.Result
	StartDate  time.Time
	EndDate    time.Time
	Threshold  float64
	Limit      int
	Candidates int
	DataIssues int
}

// Service answers semantic searches over a date window: encode, fetch, rank.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	repo   Repository
	embed  Embedder
	ranker *rank.Ranker
	cfg    Config
	logger *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, ranker *rank.Ranker, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, ranker: ranker, cfg: cfg, logger: logger}
}

// Dimensions returns the configured embedding dimension.
func (s *Service) Dimensions() int { return s.cfg.Dimensions }

// Defaults returns the fallbacks applied to omitted parameters.
func (s *Service) Defaults() request.Defaults { return s.cfg.Defaults }

// Search validates p, encodes the query text (unless an embedding is supplied), fetches the
// candidates for the window, and ranks them. Encoding and fetching run concurrently; the
// first failure cancels the other.
func (s *Service) Search(ctx context.Context, p request.Params) (Response, error) {
	resp, err := s.search(ctx, p)
	metrics.SearchRequestsTotal.WithLabelValues(SourceFromContext(ctx), outcome(resp, err)).Inc()
	return resp, err
}

func (s *Service) search(ctx context.Context, p request.Params) (Response, error) {
	req, err := request.New(p, s.cfg.Defaults)
	if err != nil {
		return Response{}, err //nolint:wrapcheck // already a validation error
	}
	if req.HasEmbedding() && s.cfg.Dimensions > 0 && len(req.QueryEmbedding()) != s.cfg.Dimensions {
		return Response{}, domain.NewDimensionMismatch(s.cfg.Dimensions, len(req.QueryEmbedding()))
	}

	log := logpkg.FromContext(ctx, s.logger)

	var (
		embedding  = req.QueryEmbedding()
		encoded    domain.EmbeddingResult
		candidates []domdoc.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	if !req.HasEmbedding() {
		g.Go(func() error {
			res, err := s.embed.Embed(gctx, req.Query())
			if err != nil {
				return fmt.Errorf("%w: encode query: %w", domain.ErrUpstream, err)
			}
			embedding, encoded = res.Embedding, res
			return nil
		})
	}
	g.Go(func() error {
		docs, err := s.repo.FetchByDateRange(gctx, req.StartDate(), req.EndDate())
		if err != nil {
			return fmt.Errorf("%w: %w: %w", domain.ErrUpstream, domain.ErrDocumentStore, err)
		}
		candidates = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	if !req.HasEmbedding() {
		domain.QueryUsageFromContext(ctx).Record(encoded)
		source := SourceFromContext(ctx)
		metrics.SearchEncodingsTotal.WithLabelValues(source).Inc()
		metrics.SearchQueryTokensTotal.WithLabelValues(source).Add(float64(encoded.TotalTokens))
	}

	metrics.SearchCandidates.Observe(float64(len(candidates)))

	start := time.Now()
	ranking, err := s.ranker.Rank(rank.Query{
		Embedding: embedding,
		StartDate: req.StartDate(),
		EndDate:   req.EndDate(),
		Threshold: req.Threshold(),
		Limit:     req.Limit(),
	}, candidates)
	metrics.SearchRankDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("Ranking failed", zap.Int("candidates", len(candidates)), zap.Error(err))
		return Response{}, fmt.Errorf("rank: %w", err)
	}

	for _, issue := range ranking.DataIssues {
		log.Warn("Skipping document with invalid content date",
			zap.Int64("document_id", issue.DocumentID),
			zap.Any("raw_date", issue.Raw),
			zap.Error(issue),
		)
	}
	metrics.SearchExcludedTotal.WithLabelValues("invalid_date").Add(float64(len(ranking.DataIssues)))
	metrics.SearchExcludedTotal.WithLabelValues("out_of_window").Add(float64(ranking.OutOfWindow))
	metrics.SearchExcludedTotal.WithLabelValues("below_threshold").Add(float64(ranking.BelowThreshold))
	metrics.SearchResults.Observe(float64(len(ranking.Results)))

	log.Debug("Search completed",
		zap.String("start_date", calendar.Format(req.StartDate())),
		zap.String("end_date", calendar.Format(req.EndDate())),
		zap.Float64("threshold", req.Threshold()),
		zap.Int("limit", req.Limit()),
		zap.Int("candidates", ranking.Candidates),
		zap.Int("results", len(ranking.Results)),
	)

	return Response{
		Results:    ranking.Results,
		StartDate:  req.StartDate(),
		EndDate:    req.EndDate(),
		Threshold:  req.Threshold(),
		Limit:      req.Limit(),
		Candidates: ranking.Candidates,
		DataIssues: len(ranking.DataIssues),
	}, nil
}

func outcome(resp Response, err error) string {
	switch {
	case err == nil && len(resp.Results) == 0:
		return metrics.OutcomeEmpty
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	case errors.Is(err, domain.ErrUpstream):
		return metrics.OutcomeUpstream
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeUpstream
	}
}
