package crawl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hireops/scout/internal/sites"
)

// ProfileURLs extracts the detail-page URL of every candidate card on a
// listing page. No cards is a valid outcome, not an error: the last page
// of a result set is often partial or empty.
func ProfileURLs(cfg sites.Config, doc *goquery.Document) []string {
	origin := siteOrigin(cfg.BaseURL)

	var urls []string
	Find(doc, cfg.Selector(sites.FieldCVCard)).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			urls = append(urls, href)
			return
		}
		if !strings.HasPrefix(href, "/") {
			href = "/" + href
		}
		urls = append(urls, origin+href)
	})
	return urls
}

// TotalPages reads the last page number from a listing page's paginator.
// The paginator's final anchor is the "next" control, so the true last
// page sits second to last. Any missing or unparsable paginator means one
// page: a single-page result set and a discovery failure are deliberately
// indistinguishable.
func TotalPages(cfg sites.Config, doc *goquery.Document) int {
	pag := Find(doc, cfg.Selector(sites.FieldPaginator)).First()
	if pag.Length() == 0 {
		return 1
	}

	links := pag.Find("a")
	if links.Length() < 2 {
		return 1
	}

	last := strings.TrimSpace(links.Eq(links.Length() - 2).Text())
	n, err := strconv.Atoi(last)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// siteOrigin reduces a listing base URL to its scheme://host origin for
// resolving relative hrefs.
func siteOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(baseURL, "/")
	}
	return u.Scheme + "://" + u.Host
}
