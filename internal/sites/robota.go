package sites

// RobotaUA returns the endpoint configuration for the rabota.ua employer
// API. Unlike the HTML sources this one is queried with a single structured
// search request; there is no selector table.
func RobotaUA() APIConfig {
	return APIConfig{
		Name:             "robota.ua",
		BaseURL:          "https://employer-api.rabota.ua/",
		ResumesEndpoint:  "cvdb/resumes",
		CityListEndpoint: "values/citylist",
		Experience: map[string]string{
			"Без досвіду":        "0",
			"До 1 року":          "1",
			"Від 1 до 2 років":   "2",
			"Від 2 до 5 років":   "3",
			"Від 5 до 10 років":  "4",
			"Більше 10 років":    "5",
		},
	}
}
