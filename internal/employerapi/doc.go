package employerapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hireops/scout/internal/candidate"
	"github.com/mitchellh/mapstructure"
)

const profileHost = "https://rabota.ua"

var digitRun = regexp.MustCompile(`\d+`)

// resumeDoc is the subset of a search hit the pipeline cares about. The API
// returns loosely typed documents whose field set varies per resume, so the
// decode is weakly typed and every field is optional.
type resumeDoc struct {
	FullName string   `mapstructure:"fullName"`
	Age      string   `mapstructure:"age"`
	CityName string   `mapstructure:"cityName"`
	Skills   []string `mapstructure:"skills"`
	// Education arrives as a boolean, a free-text string or a nested object
	// depending on the resume. Decoded untyped: weak conversion would turn
	// an explicit false into the non-empty string "0".
	Education any    `mapstructure:"education"`
	Photo     string `mapstructure:"photo"`
	URL       string `mapstructure:"url"`
}

// mapDocument converts one raw search document into a candidate record.
// Fields the document lacks keep their defaults; a document that cannot be
// decoded at all is reported as an error so the caller can count it.
func mapDocument(raw map[string]any) (*candidate.Candidate, error) {
	var doc resumeDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	c := candidate.Unknown(profileURL(doc.URL))
	if name := strings.TrimSpace(doc.FullName); name != "" {
		c.Name = name
	}
	if city := strings.TrimSpace(doc.CityName); city != "" {
		c.Location = city
	}
	if m := digitRun.FindString(doc.Age); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			c.Age = &n
		}
	}
	for _, skill := range doc.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			c.Skills = append(c.Skills, skill)
		}
	}
	c.Education = educationPresent(doc.Education)
	c.Photo = photoURL(doc.Photo)
	return c, nil
}

// educationPresent applies plain truthiness to the loosely typed education
// field: an explicit false, an empty string or an empty collection all mean
// the section is absent.
func educationPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return false
}

// photoURL filters out the API's textual null markers, which arrive as the
// string "None" embedded in an otherwise plausible URL.
func photoURL(raw string) string {
	if raw == "" || strings.Contains(raw, "None") {
		return ""
	}
	return raw
}

// profileURL turns a document's resume link into the public profile page.
// The API hands out employer-facing /cv/ links; the public site serves the
// same resume under /candidates/.
func profileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return candidate.NoURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") && !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	raw = strings.Replace(raw, "/cv/", "/candidates/", 1)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return profileHost + raw
}
