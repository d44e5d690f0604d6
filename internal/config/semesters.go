package config

// DefaultBaseURL is the course catalog site. Relative course links are
// resolved against it.
const DefaultBaseURL = "https://mccme.ru"

// Semester is one academic term with its listing-page URL.
// The list is static for the process lifetime.
type Semester struct {
	Title string
	URL   string
}

// Semesters returns the configured semester listing pages.
// Only recent terms are listed because the site changed its page
// structure for older ones.
func Semesters() []Semester {
	return []Semester{
		{
			Title: "Весна 2024-2025",
			URL:   DefaultBaseURL + "/ru/nmu/courses-of-nmu/vesna-20242025/",
		},
	}
}
