package ranking

import (
	"sort"

	"github.com/hireops/scout/internal/candidate"
)

// DefaultTopN is the number of candidates returned by both pipelines.
const DefaultTopN = 5

// Score computes the deterministic additive rating for a single candidate.
// The photo bonus deliberately dominates every other factor; it matches the
// observed production behavior and must not be "fixed" here.
func Score(c *candidate.Candidate) int {
	rating := 0

	if c.Age != nil {
		switch age := *c.Age; {
		case age >= 25 && age <= 35:
			rating += 3
		case age >= 36 && age <= 45:
			rating += 2
		default:
			rating++
		}
	}

	rating += len(c.Skills) * 2

	if c.Education {
		rating += 3
	}
	if c.AdditionalEducation {
		rating += 2
	}
	if c.Languages {
		rating += 2
	}
	if c.AdditionalInfo {
		rating++
	}
	if c.Salary != nil {
		rating++
	}
	if c.Photo != "" {
		rating += 19
	}

	return rating
}

// Apply recomputes and assigns the rating of every candidate in place. This
// is the single mutation a candidate record sees after extraction.
func Apply(candidates []*candidate.Candidate) {
	for _, c := range candidates {
		c.Rating = Score(c)
	}
}

// Top sorts candidates by rating descending and returns at most n of them.
// The sort is stable: equal ratings keep the order the extractors produced,
// there is no secondary tie-break key.
func Top(candidates []*candidate.Candidate, n int) []*candidate.Candidate {
	ranked := make([]*candidate.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
