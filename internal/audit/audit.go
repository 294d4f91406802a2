package audit

import (
	"context"
	"time"
)

// Record captures the outcome of a single page or API fetch. Records feed
// the crawl audit trail and the metrics layer; ranked candidates themselves
// are never persisted.
type Record struct {
	ID          string
	URL         string
	Method      string
	StatusCode  int
	Headers     map[string][]string
	Body        []byte
	Duration    time.Duration
	Blocked     bool
	BlockSource string // e.g. "Cloudflare", "Captcha", "RateLimit"
	CreatedAt   time.Time
	Error       string // non-empty if the fetch failed before an HTTP response
}

// Failed reports whether the record may be used as page content. Transport
// errors, block interstitials and non-2xx responses all count as failures;
// callers degrade to defaults instead of aborting.
func (r *Record) Failed() bool {
	if r == nil {
		return true
	}
	if r.Error != "" || r.Blocked {
		return true
	}
	return r.StatusCode < 200 || r.StatusCode > 299
}

// Filter selects records when querying a backend.
type Filter struct {
	URL     string
	Blocked *bool
	Since   *time.Time
	Limit   int
	Offset  int
}

// Backend stores and queries fetch records.
type Backend interface {
	Save(ctx context.Context, rec *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Close() error
}
