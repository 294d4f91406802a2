package sites

// WorkUA returns the selector table for work.ua resume pages. Several
// sections of a resume page carry no stable classes and are located by the
// visible text of their headings.
func WorkUA() Config {
	return Config{
		Name:    "work.ua",
		BaseURL: "https://www.work.ua/resumes-",
		Selectors: map[string]Selector{
			FieldCVCard:    {Query: "div.card.card-hover.card-search.resume-link.card-visited.wordwrap"},
			FieldPaginator: {Query: "ul.pagination.hidden-xs"},
			FieldName:      {Query: "h1.mt-0.mb-0"},
			FieldAge:       {Query: "dl.dl-horizontal dt", Contains: "Вік:", Adjacent: "dd"},
			FieldLocation:  {Query: "dl.dl-horizontal dt", Contains: "Місто проживання:", Adjacent: "dd"},
			FieldSalary:    {Query: "span.text-muted-print"},
			FieldSkills:    {Query: "ul.list-unstyled li span.ellipsis"},
			// "Освіта" with a capital letter matches only the section
			// heading, not the lowercase occurrence inside the additional
			// education heading.
			FieldEducation:           {Query: "h2", Contains: "Освіта"},
			FieldAdditionalEducation: {Query: "h2", Contains: "Додаткова освіта та сертифікати"},
			FieldLanguages:           {Query: "h2", Contains: "Знання мов"},
			FieldAdditionalInfo:      {Query: "h2", Contains: "Додаткова інформація"},
		},
		Experience: map[string]string{
			"Без досвіду":        "0",
			"До 1 року":          "1",
			"Від 1 до 2 років":   "164",
			"Від 2 до 5 років":   "165",
			"Понад 5 років":      "166",
		},
	}
}

// RequiredSelectors lists the fields every HTML source must configure.
func RequiredSelectors() []string {
	return []string{
		FieldCVCard,
		FieldPaginator,
		FieldName,
		FieldAge,
		FieldLocation,
		FieldSalary,
		FieldSkills,
		FieldEducation,
		FieldAdditionalEducation,
		FieldLanguages,
		FieldAdditionalInfo,
	}
}
