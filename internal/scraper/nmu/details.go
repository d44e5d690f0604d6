package nmu

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Details holds everything extracted from a course page. Every field except
// Title is optional; absent data is simply omitted from the rendered message.
type Details struct {
	Title    string
	Teacher  string
	Schedule []string
	Syllabus []string
	YouTube  string
	Rutube   string

	// Degraded is set when the page could not be fetched or parsed and the
	// result carries only the catalog title. Rendering is currently identical
	// for both cases; the flag lets callers distinguish them later.
	Degraded bool
}

// Material is a downloadable file linked from a course page.
type Material struct {
	Title string
	URL   string
}

// MaxSyllabusItems caps syllabus entries produced by the free-text fallback.
const MaxSyllabusItems = 20

var (
	numberedLineRegex  = regexp.MustCompile(`^\d+[.)]`)
	syllabusSplitRegex = regexp.MustCompile(`\n\s*-|\n\s*\d+[.)]`)
)

// ParseDetails extracts course details from a course page document.
// fallbackTitle is the catalog-listing title, used when the page has no
// structured title element.
func ParseDetails(doc *goquery.Document, fallbackTitle string) Details {
	d := Details{Title: fallbackTitle}

	if title := strings.TrimSpace(doc.Find(".course-discipline p").First().Text()); title != "" {
		d.Title = title
	}
	d.Teacher = strings.TrimSpace(doc.Find(".course-teacher p").First().Text())
	d.Schedule = extractSchedule(doc)
	d.Syllabus = extractSyllabus(doc)

	if href, ok := doc.Find(`a[href*="youtube.com/playlist"]`).First().Attr("href"); ok {
		d.YouTube = href
	}
	if href, ok := doc.Find(`a[href*="rutube.ru/plst"]`).First().Attr("href"); ok {
		d.Rutube = href
	}

	return d
}

// extractSchedule reads the structured schedule block, collapses internal
// whitespace, and truncates at the first period to drop trailing boilerplate.
// The truncation is a known lossy heuristic: a schedule description that
// legitimately contains a period loses its tail.
func extractSchedule(doc *goquery.Document) []string {
	block := doc.Find(".course-time")
	if block.Length() == 0 {
		return nil
	}

	text := strings.Join(strings.Fields(block.Text()), " ")
	text, _, _ = strings.Cut(text, ".")
	if text == "" {
		return nil
	}
	return []string{text}
}

// syllabusStrategy is one extraction heuristic. Strategies are tried in
// order until one yields non-empty output, which keeps each heuristic
// independently testable.
type syllabusStrategy func(doc *goquery.Document) []string

var syllabusStrategies = []syllabusStrategy{
	syllabusFromOrderedLists,
	syllabusFromNumberedLines,
	syllabusFromProgramText,
}

func extractSyllabus(doc *goquery.Document) []string {
	for _, strategy := range syllabusStrategies {
		if items := strategy(doc); len(items) > 0 {
			return items
		}
	}
	return nil
}

// syllabusFromOrderedLists collects ordered-list items under the known
// program containers, numbered 1..N in encounter order.
func syllabusFromOrderedLists(doc *goquery.Document) []string {
	var items []string
	doc.Find(".course-program ol li, .program-content ol li, .wrapper ol li").Each(func(i int, li *goquery.Selection) {
		items = append(items, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(li.Text())))
	})
	return items
}

// syllabusFromNumberedLines collects text nodes that already start with a
// number followed by '.' or ')', used verbatim.
func syllabusFromNumberedLines(doc *goquery.Document) []string {
	var items []string
	doc.Find("*").Contents().Each(func(i int, s *goquery.Selection) {
		if goquery.NodeName(s) != "#text" {
			return
		}
		parent := goquery.NodeName(s.Parent())
		if parent == "script" || parent == "style" {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text != "" && numberedLineRegex.MatchString(text) {
			items = append(items, text)
		}
	})
	return items
}

// syllabusFromProgramText splits a generic program block on bullet and
// numbered-line boundaries, numbering the non-empty fragments, capped at
// MaxSyllabusItems entries.
func syllabusFromProgramText(doc *goquery.Document) []string {
	block := doc.Find(".course-program, .program-content, .syllabus").First()
	if block.Length() == 0 {
		return nil
	}

	var items []string
	for _, fragment := range syllabusSplitRegex.Split(block.Text(), -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		items = append(items, fmt.Sprintf("%d. %s", len(items)+1, fragment))
		if len(items) == MaxSyllabusItems {
			break
		}
	}
	return items
}

// ParseMaterials collects downloadable material links (.pdf, .pptx, .docx)
// from a course page. The title falls back to the href's last path segment
// when the link has no visible text; URLs are resolved absolute against the
// course page URL.
func ParseMaterials(doc *goquery.Document, pageURL string) []Material {
	base, baseErr := url.Parse(pageURL)

	var materials []Material
	doc.Find(`a[href$=".pdf"], a[href$=".pptx"], a[href$=".docx"]`).Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" {
			return
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			parts := strings.Split(href, "/")
			title = parts[len(parts)-1]
		}

		fullURL := href
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				fullURL = base.ResolveReference(ref).String()
			}
		}

		materials = append(materials, Material{Title: title, URL: fullURL})
	})

	return materials
}
