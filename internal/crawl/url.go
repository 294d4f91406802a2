package crawl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/sites"
)

// ListingURL builds the listing page URL for the given criteria. It is a
// pure function of its inputs, which keeps shard URLs reproducible.
//
// Site convention: position and location are joined with '+' and embedded
// in the path as a single segment, not passed as query parameters. Page 1
// is canonical and never carries a page parameter.
func ListingURL(cfg sites.Config, c candidate.SearchCriteria) string {
	var b strings.Builder
	b.WriteString(cfg.BaseURL)

	if c.Position != "" {
		b.WriteString(url.PathEscape(c.Position))
		if c.Location != "" {
			b.WriteString("+")
			b.WriteString(url.PathEscape(c.Location))
		}
		b.WriteString("/")
	}

	var params []string
	if len(c.Experience) > 0 {
		codes := make([]string, 0, len(c.Experience))
		for _, label := range c.Experience {
			codes = append(codes, cfg.ExperienceCode(label))
		}
		params = append(params, "experience="+strings.Join(codes, "+"))
	}
	if c.Page > 1 {
		params = append(params, "page="+strconv.Itoa(c.Page))
	}

	if len(params) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(params, "&"))
	}

	return b.String()
}
