package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hireops/scout/internal/audit"
	auditndjson "github.com/hireops/scout/internal/audit/ndjson"
	auditpostgres "github.com/hireops/scout/internal/audit/postgres"
	auditsqlite "github.com/hireops/scout/internal/audit/sqlite"
	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/crawl"
	"github.com/hireops/scout/internal/employerapi"
	"github.com/hireops/scout/internal/export"
	"github.com/hireops/scout/internal/fetch"
	"github.com/hireops/scout/internal/fingerprint"
	"github.com/hireops/scout/internal/metrics"
	"github.com/hireops/scout/internal/sites"
	"github.com/hireops/scout/internal/source"
	"github.com/hireops/scout/pkg/httpclient"
	"github.com/hireops/scout/pkg/proxy"
	"github.com/hireops/scout/pkg/ratelimit"
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Search a site and print the ranked top candidates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return hunt(cmd)
	},
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().StringP("site", "s", "work.ua", "source site: work.ua or robota.ua")
	huntCmd.Flags().StringP("position", "p", "", "job title to search for (required)")
	huntCmd.Flags().StringP("location", "l", "", "city to search in")
	huntCmd.Flags().StringSliceP("experience", "e", nil, "experience labels, repeatable")
	huntCmd.Flags().Int("top", 0, "how many candidates to print (default 5)")

	huntCmd.Flags().StringP("out", "o", "text", "output format: text, json or csv")
	huntCmd.Flags().String("out-file", "", "write output to a file instead of stdout")

	huntCmd.Flags().String("audit", "none", "fetch audit backend: none, sqlite, ndjson or postgres")
	huntCmd.Flags().String("audit-dsn", "", "audit DSN or file path, depending on the backend")

	huntCmd.Flags().Int("metrics-port", 0, "serve Prometheus metrics on this port while the hunt runs")

	huntCmd.Flags().Float64("rps", 2, "max requests per second against the site, 0 disables pacing")
	huntCmd.Flags().Float64("jitter", 0.3, "0.0-1.0 jitter factor on the request interval")
	huntCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
	huntCmd.Flags().Int("detail-workers", 0, "concurrent profile-page fetches (default 16)")
	huntCmd.Flags().String("fingerprint", "chrome", "TLS fingerprint: chrome, firefox, safari, go or random")
	huntCmd.Flags().String("proxy-file", "", "file with one proxy URL per line")
	huntCmd.Flags().Bool("respect-robots", true, "honor the site's robots.txt")

	huntCmd.Flags().String("redis-url", "", "Redis URL for the city list cache (API sources only)")
	huntCmd.Flags().Duration("city-cache-ttl", 24*time.Hour, "how long the cached city list stays fresh")

	viper.BindPFlag("redis-url", huntCmd.Flags().Lookup("redis-url"))
	viper.BindPFlag("audit-dsn", huntCmd.Flags().Lookup("audit-dsn"))
}

func hunt(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr)

	position, _ := cmd.Flags().GetString("position")
	if position == "" {
		return fmt.Errorf("--position is required")
	}
	location, _ := cmd.Flags().GetString("location")
	experience, _ := cmd.Flags().GetStringSlice("experience")
	criteria := candidate.SearchCriteria{
		Position:   position,
		Location:   location,
		Experience: experience,
	}

	outName, _ := cmd.Flags().GetString("out")
	format, err := export.ParseFormat(outName)
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("metrics-port"); port > 0 {
		srv := metrics.Start(port, logger)
		defer func() {
			if err := srv.Stop(context.Background()); err != nil {
				logger.Warn("metrics server shutdown failed", "err", err)
			}
		}()
	}

	src, cleanup, err := buildSource(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("starting the hunt",
		"site", src.Name(), "position", criteria.Position, "location", criteria.Location)

	top, err := src.TopCandidates(ctx, criteria)
	if err != nil {
		return fmt.Errorf("hunt on %s: %w", src.Name(), err)
	}

	out := io.Writer(os.Stdout)
	if path, _ := cmd.Flags().GetString("out-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return export.Write(out, format, export.Report{
		Source:     src.Name(),
		Position:   criteria.Position,
		Location:   criteria.Location,
		Candidates: top,
	})
}

// buildSource assembles the pipeline for the selected site. The returned
// cleanup releases every resource the source holds and is safe to call even
// when partially wired.
func buildSource(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (source.Source, func(), error) {
	site, _ := cmd.Flags().GetString("site")
	topN, _ := cmd.Flags().GetInt("top")

	switch site {
	case "work.ua":
		return buildCrawlSource(ctx, cmd, sites.WorkUA(), topN, logger)
	case "robota.ua":
		return buildAPISource(cmd, sites.RobotaUA(), topN, logger)
	}
	return nil, nil, fmt.Errorf("unknown site %q", site)
}

func buildCrawlSource(ctx context.Context, cmd *cobra.Command, cfg sites.Config, topN int, logger *slog.Logger) (source.Source, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	backend, err := buildAuditBackend(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	if backend != nil {
		closers = append(closers, func() {
			if err := backend.Close(); err != nil {
				logger.Warn("closing audit backend", "err", err)
			}
		})
	}

	var proxyPool *proxy.Pool
	if path, _ := cmd.Flags().GetString("proxy-file"); path != "" {
		proxyPool = proxy.NewPool(proxy.Config{})
		if err := proxyPool.LoadFile(path); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	rps, _ := cmd.Flags().GetFloat64("rps")
	jitter, _ := cmd.Flags().GetFloat64("jitter")
	limiter := ratelimit.New(rps, jitter)
	closers = append(closers, limiter.Stop)

	timeout, _ := cmd.Flags().GetDuration("timeout")
	fpName, _ := cmd.Flags().GetString("fingerprint")
	respectRobots, _ := cmd.Flags().GetBool("respect-robots")

	fetcher, err := fetch.New(fetch.Config{
		Site:          cfg.Name,
		Timeout:       timeout,
		MaxRedirects:  5,
		UseCookieJar:  true,
		Fingerprint:   fingerprint.Profile(fpName),
		ProxyPool:     proxyPool,
		Limiter:       limiter,
		Audit:         backend,
		RespectRobots: respectRobots,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var opts []crawl.Option
	if topN > 0 {
		opts = append(opts, crawl.WithTopN(topN))
	}
	if workers, _ := cmd.Flags().GetInt("detail-workers"); workers > 0 {
		opts = append(opts, crawl.WithDetailWorkers(workers))
	}

	scraper, err := crawl.NewScraper(cfg, fetcher, logger, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return scraper, cleanup, nil
}

func buildAPISource(cmd *cobra.Command, cfg sites.APIConfig, topN int, logger *slog.Logger) (source.Source, func(), error) {
	cleanup := func() {}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	httpc, err := httpclient.New(httpclient.Config{Timeout: timeout})
	if err != nil {
		return nil, nil, err
	}

	var opts []employerapi.Option
	if topN > 0 {
		opts = append(opts, employerapi.WithTopN(topN))
	}

	if redisURL := viper.GetString("redis-url"); redisURL != "" {
		ttl, _ := cmd.Flags().GetDuration("city-cache-ttl")
		cache, err := employerapi.NewRedisCityCache(redisURL, cfg.Name, ttl)
		if err != nil {
			// The cache is an optimization; a dead Redis must not block a hunt.
			logger.Warn("city cache unavailable, continuing without", "err", err)
		} else {
			opts = append(opts, employerapi.WithCityCache(cache))
			cleanup = func() {
				if err := cache.Close(); err != nil {
					logger.Warn("closing city cache", "err", err)
				}
			}
		}
	}

	client, err := employerapi.NewClient(cfg, httpc, logger, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}

// buildAuditBackend wires the optional fetch audit trail.
func buildAuditBackend(ctx context.Context, cmd *cobra.Command) (audit.Backend, error) {
	kind, _ := cmd.Flags().GetString("audit")
	dsn := viper.GetString("audit-dsn")

	switch kind {
	case "", "none":
		return nil, nil
	case "sqlite":
		if dsn == "" {
			dsn = "scout-audit.db"
		}
		return auditsqlite.New(dsn)
	case "ndjson":
		if dsn == "" {
			dsn = "scout-audit.ndjson"
		}
		return auditndjson.New(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("--audit-dsn is required for the postgres audit backend")
		}
		return auditpostgres.New(ctx, dsn)
	}
	return nil, fmt.Errorf("unknown audit backend %q", kind)
}
