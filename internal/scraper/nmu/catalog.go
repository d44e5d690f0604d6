package nmu

import (
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Course is one catalog entry: display title, canonical detail-page URL,
// and the short identifier derived from that URL.
type Course struct {
	ID    string
	Title string
	URL   string
}

// mainContentSelectors locate the content region of a listing page,
// in priority order. When none match, the whole document is used.
var mainContentSelectors = []string{".page-content", ".main-section"}

// coursePathPrefix marks hrefs that point at course pages.
const coursePathPrefix = "/ru/nmu/"

// minTitleRunes filters out navigation and icon links, which carry
// little or no visible text.
const minTitleRunes = 5

// titleDenylist excludes archival and non-current content by substring
// match on the lowercased link text.
var titleDenylist = []string{"архив", "разные годы", "другие"}

// ParseCatalog extracts the course list from a semester listing page.
// Links are gathered from the main content region, filtered by the course
// heuristic, deduplicated by ShortID (first occurrence wins), and sorted
// ascending by lowercased title. May return an empty slice; the caller
// decides whether that is an error.
func ParseCatalog(doc *goquery.Document, baseURL string) []Course {
	region := doc.Selection
	for _, sel := range mainContentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			region = found
			break
		}
	}

	base, baseErr := url.Parse(baseURL)

	var courses []Course
	region.Find("a[href]").Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		text := strings.TrimSpace(link.Text())

		if !looksLikeCourseLink(href) || utf8.RuneCountInString(text) <= minTitleRunes {
			return
		}

		lower := strings.ToLower(text)
		for _, denied := range titleDenylist {
			if strings.Contains(lower, denied) {
				return
			}
		}

		fullURL := href
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				fullURL = base.ResolveReference(ref).String()
			}
		}

		courses = append(courses, Course{
			ID:    ShortID(fullURL),
			Title: text,
			URL:   fullURL,
		})
	})

	return sortCourses(dedupeCourses(courses))
}

// looksLikeCourseLink reports whether an href plausibly points at a course
// page: the NMU path prefix, or "course" anywhere in the href.
func looksLikeCourseLink(href string) bool {
	return strings.HasPrefix(href, coursePathPrefix) || strings.Contains(href, "course")
}

// dedupeCourses drops later entries whose derived identifier was already
// seen, preserving encounter order.
func dedupeCourses(courses []Course) []Course {
	seen := make(map[string]struct{}, len(courses))
	unique := make([]Course, 0, len(courses))
	for _, c := range courses {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// sortCourses orders courses ascending by lowercased title using an
// ordinal compare. Stable so equal titles keep encounter order.
func sortCourses(courses []Course) []Course {
	slices.SortStableFunc(courses, func(a, b Course) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	return courses
}
