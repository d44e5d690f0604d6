package nmu

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://mccme.ru"

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseCatalog_TwoCourses(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<div class="page-content">
			<a href="/ru/nmu/courseA">Course Alpha</a>
			<a href="/ru/nmu/courseB">Course Beta</a>
		</div>
		</body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 2)

	assert.Equal(t, "Course Alpha", courses[0].Title)
	assert.Equal(t, "https://mccme.ru/ru/nmu/courseA", courses[0].URL)
	assert.Equal(t, ShortID("https://mccme.ru/ru/nmu/courseA"), courses[0].ID)
	assert.Len(t, courses[0].ID, 8)

	assert.Equal(t, "Course Beta", courses[1].Title)
	assert.Equal(t, "https://mccme.ru/ru/nmu/courseB", courses[1].URL)
	assert.Len(t, courses[1].ID, 8)
}

func TestParseCatalog_FallsBackToWholeDocument(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<div class="unrelated">
			<a href="/ru/nmu/topology">Топология и геометрия</a>
		</div>
		</body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 1)
	assert.Equal(t, "Топология и геометрия", courses[0].Title)
}

func TestParseCatalog_FiltersShortAndNonCourseLinks(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><div class="page-content">
			<a href="/ru/nmu/calc">Математический анализ</a>
			<a href="/ru/nmu/icon">⌂</a>
			<a href="/ru/about">Общая информация о сайте</a>
			<a href="/something/course-x">Дифференциальные уравнения</a>
		</div></body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 2)
	assert.Equal(t, "Дифференциальные уравнения", courses[0].Title)
	assert.Equal(t, "Математический анализ", courses[1].Title)
}

func TestParseCatalog_Denylist(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><div class="page-content">
			<a href="/ru/nmu/alg">Алгебраическая геометрия</a>
			<a href="/ru/nmu/arch">Архив курсов прошлых лет</a>
			<a href="/ru/nmu/misc">Разные годы обучения</a>
			<a href="/ru/nmu/other">Другие материалы НМУ</a>
		</div></body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 1)
	assert.Equal(t, "Алгебраическая геометрия", courses[0].Title)
}

func TestParseCatalog_DedupeByID(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><div class="page-content">
			<a href="/ru/nmu/courseA">Course Alpha</a>
			<a href="https://mccme.ru/ru/nmu/courseA">Course Alpha (duplicate)</a>
		</div></body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 1)
	assert.Equal(t, "Course Alpha", courses[0].Title, "first occurrence wins")
}

func TestParseCatalog_SortedByLowerTitle(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body><div class="page-content">
			<a href="/ru/nmu/c">гамма курс</a>
			<a href="/ru/nmu/a">Альфа курс</a>
			<a href="/ru/nmu/b">Бета курс</a>
		</div></body></html>`)

	courses := ParseCatalog(doc, baseURL)
	require.Len(t, courses, 3)

	for i := 1; i < len(courses); i++ {
		prev := strings.ToLower(courses[i-1].Title)
		cur := strings.ToLower(courses[i].Title)
		assert.LessOrEqual(t, prev, cur, "titles must be non-decreasing")
	}
}

func TestParseCatalog_Empty(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="page-content"><p>Страница пуста</p></div></body></html>`)

	assert.Empty(t, ParseCatalog(doc, baseURL))
}

func TestLooksLikeCourseLink(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"/ru/nmu/algebra", true},
		{"https://other.site/course/123", true},
		{"/ru/about", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikeCourseLink(tt.href), "href=%q", tt.href)
	}
}
