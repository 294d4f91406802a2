package crawl

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"

	"github.com/PuerkitoBio/goquery"
	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/fetch"
	"github.com/hireops/scout/internal/metrics"
	"github.com/hireops/scout/internal/ranking"
	"github.com/hireops/scout/internal/sites"
	"golang.org/x/sync/errgroup"
)

const defaultDetailWorkers = 16

// Scraper runs the HTML pipeline for one site: discover the page count,
// crawl listing pages in interleaved shards, extract every profile page,
// score and return the top of the pool.
type Scraper struct {
	cfg           sites.Config
	fetcher       *fetch.Fetcher
	logger        *slog.Logger
	topN          int
	detailWorkers int
	shardWidth    int
}

// Option adjusts scraper behavior.
type Option func(*Scraper)

// WithTopN overrides how many candidates are returned.
func WithTopN(n int) Option {
	return func(s *Scraper) { s.topN = n }
}

// WithDetailWorkers bounds the concurrent detail-page fetches. Detail
// fan-out is per discovered URL and needs backpressure on large result
// sets.
func WithDetailWorkers(n int) Option {
	return func(s *Scraper) { s.detailWorkers = n }
}

// WithShardWidth overrides the number of listing-page shards, which
// otherwise follows GOMAXPROCS.
func WithShardWidth(n int) Option {
	return func(s *Scraper) { s.shardWidth = n }
}

// NewScraper validates the site configuration and builds the pipeline. An
// incomplete selector table is a programming error in the configuration
// and is rejected here, not once per record.
func NewScraper(cfg sites.Config, fetcher *fetch.Fetcher, logger *slog.Logger, opts ...Option) (*Scraper, error) {
	if err := cfg.Validate(sites.RequiredSelectors()...); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scraper{
		cfg:           cfg,
		fetcher:       fetcher,
		logger:        logger,
		topN:          ranking.DefaultTopN,
		detailWorkers: defaultDetailWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detailWorkers < 1 {
		s.detailWorkers = 1
	}
	return s, nil
}

// Name returns the configured site name.
func (s *Scraper) Name() string {
	return s.cfg.Name
}

// TopCandidates runs the full pipeline for the criteria. Unreachable pages
// degrade to defaults along the way; the only hard failure is context
// cancellation.
func (s *Scraper) TopCandidates(ctx context.Context, criteria candidate.SearchCriteria) ([]*candidate.Candidate, error) {
	urls, err := s.collectProfileURLs(ctx, criteria)
	if err != nil {
		return nil, err
	}
	s.logger.Info("listing crawl finished", "site", s.cfg.Name, "profiles", len(urls))

	pool, err := s.extractAll(ctx, urls)
	if err != nil {
		return nil, err
	}

	metrics.RecordRanked(s.cfg.Name, len(pool))
	ranking.Apply(pool)
	return ranking.Top(pool, s.topN), nil
}

// collectProfileURLs discovers the page count, partitions the range and
// crawls each shard's pages sequentially, shards in parallel.
func (s *Scraper) collectProfileURLs(ctx context.Context, criteria candidate.SearchCriteria) ([]string, error) {
	total := s.discoverTotalPages(ctx, criteria)

	width := s.shardWidth
	if width <= 0 {
		width = runtime.GOMAXPROCS(0)
	}
	shards := Shards(total, width)
	s.logger.Debug("partitioned listing pages",
		"site", s.cfg.Name, "total_pages", total, "shards", len(shards))

	shardURLs := make([][]string, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	for i, pages := range shards {
		g.Go(func() error {
			for _, page := range pages {
				if err := gctx.Err(); err != nil {
					return err
				}

				pageCriteria := criteria
				pageCriteria.Page = page

				rec := s.fetcher.Fetch(gctx, ListingURL(s.cfg, pageCriteria))
				if rec.Failed() {
					continue
				}

				doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body))
				if err != nil {
					s.logger.Warn("unparsable listing page", "url", rec.URL, "err", err)
					continue
				}

				shardURLs[i] = append(shardURLs[i], ProfileURLs(s.cfg, doc)...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var urls []string
	for _, shard := range shardURLs {
		urls = append(urls, shard...)
	}
	return urls, nil
}

// discoverTotalPages fetches page 1 and reads the paginator. Every failure
// mode collapses to a single page.
func (s *Scraper) discoverTotalPages(ctx context.Context, criteria candidate.SearchCriteria) int {
	criteria.Page = 1

	rec := s.fetcher.Fetch(ctx, ListingURL(s.cfg, criteria))
	if rec.Failed() {
		return 1
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body))
	if err != nil {
		return 1
	}

	return TotalPages(s.cfg, doc)
}

// extractAll fetches and extracts every profile URL through a bounded
// worker pool, preserving input order in the output.
func (s *Scraper) extractAll(ctx context.Context, urls []string) ([]*candidate.Candidate, error) {
	pool := make([]*candidate.Candidate, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailWorkers)
	for i, u := range urls {
		g.Go(func() error {
			pool[i] = s.extractDetail(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return pool, nil
}

// extractDetail turns one profile URL into a candidate record, degrading
// to the all-unknown record when the page cannot be fetched or parsed.
func (s *Scraper) extractDetail(ctx context.Context, profileURL string) *candidate.Candidate {
	rec := s.fetcher.Fetch(ctx, profileURL)
	if rec.Failed() {
		metrics.RecordUnknownProfile(s.cfg.Name)
		return candidate.Unknown(profileURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body))
	if err != nil {
		s.logger.Warn("unparsable profile page", "url", profileURL, "err", err)
		metrics.RecordUnknownProfile(s.cfg.Name)
		return candidate.Unknown(profileURL)
	}

	return ExtractCandidate(s.cfg, doc, profileURL)
}
