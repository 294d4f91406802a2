package sites

import "fmt"

// Logical field names resolved through a site's selector table.
const (
	FieldCVCard              = "cv_card"
	FieldPaginator           = "paginator"
	FieldName                = "name"
	FieldAge                 = "age"
	FieldLocation            = "location"
	FieldSalary              = "salary"
	FieldSkills              = "skills"
	FieldEducation           = "education"
	FieldAdditionalEducation = "additional_education"
	FieldLanguages           = "languages"
	FieldAdditionalInfo      = "additional_info"
)

// Selector locates one logical field inside a page. Query is a plain CSS
// selector. Contains optionally narrows the matched set to elements whose
// visible text contains the given (case-sensitive) substring; the target
// markup has no stable class names for several headings, so they are found
// by label. Adjacent, when set, moves from each narrowed element to its next
// sibling matching that selector (the "dt label, dd value" layout).
type Selector struct {
	Query    string
	Contains string
	Adjacent string
}

// Config describes one HTML-rendered source: where its listing pages live
// and how to locate each field. Configs are immutable value objects passed
// explicitly into the pipeline; there is no ambient site registry.
type Config struct {
	Name      string
	BaseURL   string
	Selectors map[string]Selector
	// Experience maps free-text experience labels to the site's internal
	// codes. Unknown labels pass through unchanged.
	Experience map[string]string
}

// Selector returns the selector for a logical field name.
func (c Config) Selector(field string) Selector {
	return c.Selectors[field]
}

// ExperienceCode maps a label through the experience table, falling back to
// the raw label when the table has no entry.
func (c Config) ExperienceCode(label string) string {
	if code, ok := c.Experience[label]; ok {
		return code
	}
	return label
}

// Validate checks that every required selector is present. A missing key is
// a programming error in the site configuration, caught at construction
// time rather than once per record.
func (c Config) Validate(required ...string) error {
	for _, field := range required {
		sel, ok := c.Selectors[field]
		if !ok || sel.Query == "" {
			return fmt.Errorf("site %q: missing selector for field %q", c.Name, field)
		}
	}
	return nil
}

// APIConfig describes one JSON-API source: its base URL, the two endpoints
// the pipeline calls, and its experience code table.
type APIConfig struct {
	Name             string
	BaseURL          string
	ResumesEndpoint  string
	CityListEndpoint string
	Experience       map[string]string
}

// ExperienceCodes maps a list of labels to site codes, dropping nothing:
// labels absent from the table pass through as-is.
func (c APIConfig) ExperienceCodes(labels []string) []string {
	codes := make([]string, 0, len(labels))
	for _, label := range labels {
		if code, ok := c.Experience[label]; ok {
			codes = append(codes, code)
			continue
		}
		codes = append(codes, label)
	}
	return codes
}

// Validate checks the endpoint wiring of an API source.
func (c APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("site %q: missing base URL", c.Name)
	}
	if c.ResumesEndpoint == "" || c.CityListEndpoint == "" {
		return fmt.Errorf("site %q: missing endpoint configuration", c.Name)
	}
	return nil
}
