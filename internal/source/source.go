// Package source defines the contract shared by every candidate source, so
// callers can run the HTML crawl pipeline and the employer API pipeline
// interchangeably.
package source

import (
	"context"

	"github.com/hireops/scout/internal/candidate"
)

// Source produces the ranked top candidates for a search.
type Source interface {
	// Name identifies the source in logs, metrics and output.
	Name() string
	// TopCandidates runs the source's full pipeline for the criteria and
	// returns candidates ordered by descending rating.
	TopCandidates(ctx context.Context, criteria candidate.SearchCriteria) ([]*candidate.Candidate, error)
}
