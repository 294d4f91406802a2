package crawl

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hireops/scout/internal/sites"
)

// Find resolves a site selector against a parsed document. The Contains
// narrowing runs after the CSS query because the target markup identifies
// several sections only by heading text, and cascadia's own :contains
// extension lowercases its argument, which would conflate the "Освіта"
// heading with the additional-education one.
func Find(doc *goquery.Document, sel sites.Selector) *goquery.Selection {
	s := doc.Find(sel.Query)

	if sel.Contains != "" {
		s = s.FilterFunction(func(_ int, node *goquery.Selection) bool {
			return strings.Contains(node.Text(), sel.Contains)
		})
	}

	if sel.Adjacent != "" {
		s = s.NextFiltered(sel.Adjacent)
	}

	return s
}
