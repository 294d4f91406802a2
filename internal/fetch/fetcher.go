package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hireops/scout/internal/audit"
	"github.com/hireops/scout/internal/blockdetect"
	"github.com/hireops/scout/internal/fingerprint"
	"github.com/hireops/scout/internal/metrics"
	"github.com/hireops/scout/pkg/httpclient"
	"github.com/hireops/scout/pkg/proxy"
	"github.com/hireops/scout/pkg/ratelimit"
	"github.com/hireops/scout/pkg/useragent"
)

type contextKey string

const proxyKey contextKey = "proxy_url"

// Config configures a site fetcher.
type Config struct {
	// Site is the label used for logging, metrics and audit records.
	Site         string
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	Fingerprint  fingerprint.Profile
	UAPool       *useragent.Pool
	ProxyPool    *proxy.Pool
	Limiter      *ratelimit.Limiter
	// Audit, when set, receives every fetch outcome.
	Audit audit.Backend
	// RespectRobots gates fetches on the host's robots.txt.
	RespectRobots bool
	RobotsAgent   string
}

// Fetcher performs fail-soft GETs for the HTML pipeline. Transport failures,
// block pages and non-2xx statuses are all captured inside the returned
// record and never surface as errors: one unreachable page must not abort a
// multi-page crawl.
type Fetcher struct {
	cfg    Config
	client *httpclient.Client
	logger *slog.Logger
	robots *robotsGate
}

// New initializes a Fetcher. A single underlying client is held for the
// fetcher's lifetime so connection pooling and cookies persist across pages.
func New(cfg Config, logger *slog.Logger) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.RobotsAgent == "" {
		cfg.RobotsAgent = "*"
	}
	if logger == nil {
		logger = slog.Default()
	}

	// The proxy URL travels in the request context so the shared transport
	// can rotate proxies per request.
	proxyFunc := func(req *http.Request) (*url.URL, error) {
		if val := req.Context().Value(proxyKey); val != nil {
			if u, ok := val.(*url.URL); ok {
				return u, nil
			}
		}
		return http.ProxyFromEnvironment(req)
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, proxyFunc)
	if err != nil {
		return nil, fmt.Errorf("setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	f := &Fetcher{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if cfg.RespectRobots {
		f.robots = newRobotsGate(client, cfg.UAPool, logger)
	}
	return f, nil
}

// Fetch executes a GET against targetURL and returns the outcome as an
// audit record. The returned record is never nil.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) *audit.Record {
	start := time.Now()
	rec := &audit.Record{
		ID:        uuid.New().String(),
		URL:       targetURL,
		Method:    http.MethodGet,
		CreatedAt: start.UTC(),
	}

	defer func() {
		rec.Duration = time.Since(start)
		f.finish(ctx, rec)
	}()

	if f.robots != nil {
		allowed, err := f.robots.isAllowed(ctx, targetURL, f.cfg.RobotsAgent)
		if err != nil {
			f.logger.Warn("robots.txt check failed, allowing", "url", targetURL, "err", err)
		} else if !allowed {
			rec.Error = "disallowed by robots.txt"
			return rec
		}
	}

	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.Wait(ctx); err != nil {
			rec.Error = fmt.Sprintf("rate limiter: %v", err)
			return rec
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		rec.Error = fmt.Sprintf("build request: %v", err)
		return rec
	}

	var activeProxy *url.URL
	if f.cfg.ProxyPool != nil {
		if activeProxy = f.cfg.ProxyPool.Next(); activeProxy != nil {
			req = req.WithContext(context.WithValue(req.Context(), proxyKey, activeProxy))
		}
	}

	req.Header.Set("User-Agent", f.cfg.UAPool.Next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,en-US;q=0.5")

	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		if activeProxy != nil {
			_ = f.cfg.ProxyPool.MarkFailure(activeProxy)
		}
		rec.Error = fmt.Sprintf("request failed: %v", err)
		return rec
	}
	defer resp.Body.Close()

	if activeProxy != nil {
		_ = f.cfg.ProxyPool.MarkSuccess(activeProxy)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		rec.Error = fmt.Sprintf("read body: %v", err)
	}

	rec.StatusCode = resp.StatusCode
	rec.Headers = resp.Header
	rec.Body = body

	blockdetect.Analyze(rec, blockdetect.Default())

	return rec
}

// finish logs, records metrics and persists the outcome.
func (f *Fetcher) finish(ctx context.Context, rec *audit.Record) {
	if rec.Failed() {
		f.logger.Warn("fetch degraded",
			"site", f.cfg.Site, "url", rec.URL, "status", rec.StatusCode,
			"blocked", rec.Blocked, "err", rec.Error)
	} else {
		f.logger.Debug("fetched", "site", f.cfg.Site, "url", rec.URL, "status", rec.StatusCode)
	}

	metrics.RecordFetch(f.cfg.Site, rec)

	if f.cfg.Audit != nil {
		if err := f.cfg.Audit.Save(ctx, rec); err != nil {
			f.logger.Error("failed to save audit record", "url", rec.URL, "err", err)
		}
	}
}
