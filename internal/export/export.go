// Package export renders a ranked candidate list for human or machine
// consumption.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/hireops/scout/internal/candidate"
)

// Format names an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Report is the payload every renderer receives.
type Report struct {
	Source     string                 `json:"source"`
	Position   string                 `json:"position"`
	Location   string                 `json:"location,omitempty"`
	Candidates []*candidate.Candidate `json:"candidates"`
}

// Write renders the report in the requested format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteJSON writes the report to the provided writer in JSON format.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable leaderboard to the provided writer.
func WriteText(w io.Writer, r Report) error {
	const textTmpl = `Top candidates from {{.Source}} for "{{.Position}}"{{if .Location}} in {{.Location}}{{end}}
{{- range $i, $c := .Candidates}}

#{{inc $i}} {{$c.Name}} (rating {{$c.Rating}})
  Age:      {{with $c.Age}}{{.}}{{else}}unknown{{end}}
  Location: {{$c.Location}}
  Salary:   {{with $c.Salary}}{{.}}{{else}}unknown{{end}}
  Skills:   {{if $c.Skills}}{{join $c.Skills ", "}}{{else}}none listed{{end}}
  URL:      {{$c.URL}}
{{- else}}

No candidates found.
{{- end}}
`

	t, err := template.New("leaderboard").Funcs(template.FuncMap{
		"inc":  func(i int) int { return i + 1 },
		"join": strings.Join,
	}).Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	if err := t.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// headers defines the CSV column order.
var headers = []string{
	"rank",
	"rating",
	"name",
	"age",
	"location",
	"salary",
	"skills",
	"education",
	"additional_education",
	"languages",
	"additional_info",
	"photo",
	"url",
}

// WriteCSV writes one row per candidate, ranks starting at 1.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range r.Candidates {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Rating),
			c.Name,
			optionalInt(c.Age),
			c.Location,
			optionalInt(c.Salary),
			strings.Join(c.Skills, "; "),
			strconv.FormatBool(c.Education),
			strconv.FormatBool(c.AdditionalEducation),
			strconv.FormatBool(c.Languages),
			strconv.FormatBool(c.AdditionalInfo),
			c.Photo,
			c.URL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
