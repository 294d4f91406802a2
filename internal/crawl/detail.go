package crawl

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/sites"
)

// ExtractCandidate builds a candidate record from a parsed detail page.
// Every field is extracted independently and falls back to its own
// default; a half-broken page still yields a usable record.
func ExtractCandidate(cfg sites.Config, doc *goquery.Document, pageURL string) *candidate.Candidate {
	return &candidate.Candidate{
		Name:                extractText(doc, cfg.Selector(sites.FieldName)),
		Age:                 extractAge(doc, cfg.Selector(sites.FieldAge)),
		Location:            extractText(doc, cfg.Selector(sites.FieldLocation)),
		Salary:              extractSalary(doc, cfg.Selector(sites.FieldSalary)),
		Skills:              extractSkills(doc, cfg.Selector(sites.FieldSkills)),
		Education:           exists(doc, cfg.Selector(sites.FieldEducation)),
		AdditionalEducation: exists(doc, cfg.Selector(sites.FieldAdditionalEducation)),
		Languages:           exists(doc, cfg.Selector(sites.FieldLanguages)),
		AdditionalInfo:      exists(doc, cfg.Selector(sites.FieldAdditionalInfo)),
		URL:                 pageURL,
	}
}

func extractText(doc *goquery.Document, sel sites.Selector) string {
	s := Find(doc, sel).First()
	if s.Length() == 0 {
		return candidate.UnknownText
	}
	return strings.TrimSpace(s.Text())
}

// extractAge parses the first whitespace-delimited token of the age field,
// and only if it is purely digits: the field reads like "32 роки", and
// anything fancier than a leading number means the layout changed.
func extractAge(doc *goquery.Document, sel sites.Selector) *int {
	fields := strings.Fields(extractText(doc, sel))
	if len(fields) == 0 {
		return nil
	}

	token := fields[0]
	for _, r := range token {
		if r < '0' || r > '9' {
			return nil
		}
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return nil
	}
	return &n
}

// extractSalary strips everything but digits from the salary field, which
// arrives with currency markers and thousands separators.
func extractSalary(doc *goquery.Document, sel sites.Selector) *int {
	var digits strings.Builder
	for _, r := range extractText(doc, sel) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return nil
	}
	return &n
}

func extractSkills(doc *goquery.Document, sel sites.Selector) []string {
	skills := []string{}
	Find(doc, sel).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			skills = append(skills, text)
		}
	})
	return skills
}

func exists(doc *goquery.Document, sel sites.Selector) bool {
	return Find(doc, sel).Length() > 0
}
