package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/hireops/scout/pkg/httpclient"
	"github.com/hireops/scout/pkg/useragent"
	"github.com/temoto/robotstxt"
)

// robotsGate fetches and caches robots.txt per host. Lookup failures fail
// open: a crawl should not stall because a robots.txt endpoint is flaky.
type robotsGate struct {
	client *httpclient.Client
	uas    *useragent.Pool
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*robotstxt.RobotsData
}

func newRobotsGate(client *httpclient.Client, uas *useragent.Pool, logger *slog.Logger) *robotsGate {
	return &robotsGate{
		client: client,
		uas:    uas,
		logger: logger,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

func (g *robotsGate) isAllowed(ctx context.Context, targetURL, agent string) (bool, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false, fmt.Errorf("invalid url: %w", err)
	}

	origin := u.Scheme + "://" + u.Host

	data, err := g.getOrFetch(ctx, origin)
	if err != nil {
		g.logger.Debug("robots.txt unavailable, allowing", "host", origin, "err", err)
		return true, nil
	}
	if data == nil {
		return true, nil
	}

	return data.FindGroup(agent).Test(u.Path), nil
}

func (g *robotsGate) getOrFetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.cache[origin]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok = g.cache[origin]; ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		g.cache[origin] = nil
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", g.uas.Next())

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		g.cache[origin] = nil
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	// A missing robots.txt means everything is allowed.
	if resp.StatusCode >= 400 {
		g.cache[origin] = nil
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.cache[origin] = nil
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	parsed, err := robotstxt.FromBytes(body)
	if err != nil {
		g.cache[origin] = nil
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.cache[origin] = parsed
	return parsed, nil
}
