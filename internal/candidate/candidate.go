package candidate

// UnknownText is the placeholder for text fields that could not be extracted.
const UnknownText = "Unknown"

// NoURL is the sentinel used when a profile document carries no link at all.
// Downstream code never branches on an absent URL.
const NoURL = "No URL"

// SearchCriteria describes one ranking request. It is built once per request
// and never mutated afterwards.
type SearchCriteria struct {
	// Position is the free-text job title to search for, e.g. "Python".
	Position string
	// Location is an optional city name.
	Location string
	// Experience holds zero or more experience labels. Labels are mapped
	// through a per-site lookup table; unknown labels pass through as-is.
	Experience []string
	// Page is the listing page to start from, 1-based.
	Page int
}

// Candidate is the unified profile record produced by both extraction paths.
//
// Age and Salary are pointers because zero is a valid domain value; nil means
// "unknown". Skills may be empty but is never nil-significant. Rating is
// always recomputed by the ranking step before anyone reads it.
type Candidate struct {
	Name                string   `json:"name"`
	Age                 *int     `json:"age"`
	Location            string   `json:"location"`
	Skills              []string `json:"skills"`
	Education           bool     `json:"education"`
	AdditionalEducation bool     `json:"additional_education"`
	Languages           bool     `json:"languages"`
	AdditionalInfo      bool     `json:"additional_info"`
	Salary              *int     `json:"salary"`
	Photo               string   `json:"photo,omitempty"`
	URL                 string   `json:"url"`
	Rating              int      `json:"rating"`
}

// Unknown returns the all-default record for a profile that could not be
// fetched or parsed. The URL is kept so the record still identifies its
// source, and the record participates in ranking like any other.
func Unknown(url string) *Candidate {
	return &Candidate{
		Name:     UnknownText,
		Location: UnknownText,
		Skills:   []string{},
		URL:      url,
	}
}

// IntPtr is a small helper for building optional numeric fields.
func IntPtr(v int) *int { return &v }
