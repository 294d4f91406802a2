// Package employerapi implements the JSON pipeline against the rabota.ua
// employer API. Unlike the HTML crawl there is no pagination walk: the city
// is resolved through a reference list, a single structured search request
// returns every matching document, and the documents are mapped straight
// into candidate records.
package employerapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/metrics"
	"github.com/hireops/scout/internal/ranking"
	"github.com/hireops/scout/internal/sites"
	"github.com/hireops/scout/pkg/httpclient"
)

// allUkraine is the API's city id for an unrestricted search.
const allUkraine = 0

// City is one entry of the API's city reference list.
type City struct {
	ID   int    `json:"id"`
	Name string `json:"nameUkr"`
}

// searchRequest is the fixed-shape search the API expects. Everything but
// the criteria-derived fields is pinned: newest-first relevance scoring over
// the last three months, matching on skills, Ukrainian-language resumes.
// The search context key is the one the API reads in PascalCase.
type searchRequest struct {
	Page          int      `json:"page"`
	Period        string   `json:"period"`
	Sort          string   `json:"sort"`
	SearchType    string   `json:"searchType"`
	Ukrainian     bool     `json:"ukrainian"`
	SearchContext string   `json:"SearchContext"`
	CityID        int      `json:"cityId"`
	ExperienceIDs []string `json:"experienceIds"`
	KeyWords      string   `json:"keyWords"`
}

type searchResponse struct {
	Documents []map[string]any `json:"documents"`
}

// Client queries one employer API source.
type Client struct {
	cfg    sites.APIConfig
	http   *httpclient.Client
	logger *slog.Logger
	cache  CityCache
	topN   int
}

// Option adjusts client behavior.
type Option func(*Client)

// WithTopN overrides how many candidates are returned.
func WithTopN(n int) Option {
	return func(c *Client) { c.topN = n }
}

// WithCityCache plugs in a city list cache. Without one every search fetches
// the reference list anew.
func WithCityCache(cache CityCache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient validates the endpoint configuration and builds a client.
func NewClient(cfg sites.APIConfig, httpc *httpclient.Client, logger *slog.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:    cfg,
		http:   httpc,
		logger: logger,
		topN:   ranking.DefaultTopN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the configured source name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// TopCandidates resolves the city, runs one search request and returns the
// ranked top of the result set. An unresolvable city aborts the search: a
// misspelled location must not silently widen into a country-wide query.
func (c *Client) TopCandidates(ctx context.Context, criteria candidate.SearchCriteria) ([]*candidate.Candidate, error) {
	cityID := allUkraine
	if criteria.Location != "" {
		id, err := c.ResolveCity(ctx, criteria.Location)
		if err != nil {
			return nil, err
		}
		cityID = id
	}

	req := searchRequest{
		Page:          0,
		Period:        "ThreeMonths",
		Sort:          "Score",
		SearchType:    "skills",
		Ukrainian:     true,
		SearchContext: "Main",
		CityID:        cityID,
		ExperienceIDs: c.cfg.ExperienceCodes(criteria.Experience),
		KeyWords:      criteria.Position,
	}

	var resp searchResponse
	if err := c.http.PostJSON(ctx, c.endpoint(c.cfg.ResumesEndpoint), req, &resp); err != nil {
		return nil, fmt.Errorf("search resumes: %w", err)
	}
	c.logger.Info("search finished", "site", c.cfg.Name, "documents", len(resp.Documents))

	pool := make([]*candidate.Candidate, 0, len(resp.Documents))
	for _, raw := range resp.Documents {
		cand, err := mapDocument(raw)
		if err != nil {
			c.logger.Warn("skipping undecodable document", "site", c.cfg.Name, "err", err)
			metrics.RecordUnknownProfile(c.cfg.Name)
			continue
		}
		pool = append(pool, cand)
	}

	metrics.RecordRanked(c.cfg.Name, len(pool))
	ranking.Apply(pool)
	return ranking.Top(pool, c.topN), nil
}

// ResolveCity maps a city name to the API's numeric id. Matching is exact
// but case-insensitive; a miss is a hard error.
func (c *Client) ResolveCity(ctx context.Context, name string) (int, error) {
	cities, err := c.cityList(ctx)
	if err != nil {
		return 0, err
	}

	for _, city := range cities {
		if strings.EqualFold(city.Name, name) {
			return city.ID, nil
		}
	}
	return 0, fmt.Errorf("city %q not found in %s city list", name, c.cfg.Name)
}

// cityList returns the city reference list, consulting the cache first. A
// cache failure degrades to a direct fetch, never to a failed search.
func (c *Client) cityList(ctx context.Context) ([]City, error) {
	if c.cache != nil {
		cities, err := c.cache.Get(ctx)
		if err == nil {
			return cities, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("city cache read failed", "site", c.cfg.Name, "err", err)
		}
	}

	var cities []City
	if err := c.http.GetJSON(ctx, c.endpoint(c.cfg.CityListEndpoint), &cities); err != nil {
		return nil, fmt.Errorf("fetch city list: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cities); err != nil {
			c.logger.Warn("city cache write failed", "site", c.cfg.Name, "err", err)
		}
	}
	return cities, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
