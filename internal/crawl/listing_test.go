package crawl

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/hireops/scout/internal/sites"
)

func htmlTestConfig() sites.Config {
	return sites.Config{
		Name:    "test",
		BaseURL: "https://example.com/resumes-",
		Selectors: map[string]sites.Selector{
			sites.FieldCVCard:              {Query: "div.resume-card"},
			sites.FieldPaginator:           {Query: "ul.pagination"},
			sites.FieldName:                {Query: "h1.name"},
			sites.FieldAge:                 {Query: "dl dt", Contains: "Вік:", Adjacent: "dd"},
			sites.FieldLocation:            {Query: "dl dt", Contains: "Місто:", Adjacent: "dd"},
			sites.FieldSalary:              {Query: "span.salary"},
			sites.FieldSkills:              {Query: "ul.skills li"},
			sites.FieldEducation:           {Query: "h2", Contains: "Освіта"},
			sites.FieldAdditionalEducation: {Query: "h2", Contains: "Додаткова освіта"},
			sites.FieldLanguages:           {Query: "h2", Contains: "Знання мов"},
			sites.FieldAdditionalInfo:      {Query: "h2", Contains: "Додаткова інформація"},
		},
	}
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestProfileURLs(t *testing.T) {
	cfg := htmlTestConfig()
	doc := parseHTML(t, `
		<div class="resume-card"><a href="/resumes/101/">A</a></div>
		<div class="resume-card"><a href="resumes/102/">B</a></div>
		<div class="resume-card"><a href="https://other.example.com/resumes/103/">C</a></div>
		<div class="resume-card"><span>no link</span></div>
		<div class="unrelated"><a href="/resumes/999/">skip</a></div>
	`)

	got := ProfileURLs(cfg, doc)
	want := []string{
		"https://example.com/resumes/101/",
		"https://example.com/resumes/102/",
		"https://other.example.com/resumes/103/",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d urls %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProfileURLsEmptyPage(t *testing.T) {
	cfg := htmlTestConfig()
	doc := parseHTML(t, `<html><body><p>no results</p></body></html>`)

	if got := ProfileURLs(cfg, doc); len(got) != 0 {
		t.Errorf("got %v, want no urls", got)
	}
}

func TestTotalPages(t *testing.T) {
	cfg := htmlTestConfig()

	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "last page sits before the next control",
			html: `<ul class="pagination">
				<li><a href="?page=1">1</a></li>
				<li><a href="?page=2">2</a></li>
				<li><a href="?page=17">17</a></li>
				<li><a href="?page=2">Наступна</a></li>
			</ul>`,
			want: 17,
		},
		{
			name: "missing paginator means one page",
			html: `<html><body></body></html>`,
			want: 1,
		},
		{
			name: "single link means one page",
			html: `<ul class="pagination"><li><a href="?page=2">Наступна</a></li></ul>`,
			want: 1,
		},
		{
			name: "non-numeric text means one page",
			html: `<ul class="pagination">
				<li><a href="?page=2">далі</a></li>
				<li><a href="?page=2">Наступна</a></li>
			</ul>`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, tt.html)
			if got := TotalPages(cfg, doc); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}
