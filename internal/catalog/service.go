// Package catalog implements course catalog retrieval with caching,
// request coalescing and graceful degradation on scrape failures.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/nmubot/nmu-telebot-go/internal/errors"
	"github.com/nmubot/nmu-telebot-go/internal/metrics"
	"github.com/nmubot/nmu-telebot-go/internal/scraper"
	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
	"github.com/nmubot/nmu-telebot-go/internal/storage"
)

// Service fetches semester catalogs and course details from the university
// site. Catalog results are cached per semester URL; a stale cache entry is
// served when a refresh fails.
type Service struct {
	client  *scraper.Client
	cache   *storage.CatalogCache
	flight  *scraper.FlightGroup
	metrics *metrics.Metrics
	baseURL string
}

// NewService creates a new catalog service.
func NewService(client *scraper.Client, cache *storage.CatalogCache, m *metrics.Metrics, baseURL string) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		flight:  scraper.NewFlightGroup(),
		metrics: m,
		baseURL: baseURL,
	}
}

// FetchCourses returns the course list for a semester page, sorted by title.
// A fresh cache entry short-circuits the scrape. Concurrent calls for the
// same semester are coalesced. When the scrape fails or yields an empty
// catalog, any cached entry (fresh or expired) is returned instead; the
// error is surfaced only when no cached data exists at all.
func (s *Service) FetchCourses(ctx context.Context, semesterURL string) ([]nmu.Course, error) {
	if courses, ok := s.cache.GetFresh(semesterURL); ok {
		s.metrics.RecordCacheHit("fresh")
		slog.DebugContext(ctx, "serving cached catalog",
			"semester_url", semesterURL,
			"count", len(courses))
		return courses, nil
	}
	s.metrics.RecordCacheMiss()

	result, err, shared := s.flight.Do(ctx, semesterURL, func() (interface{}, error) {
		// A concurrent caller may have refreshed the cache while this
		// goroutine waited for the flight slot.
		if courses, ok := s.cache.GetFresh(semesterURL); ok {
			return courses, nil
		}
		return s.scrapeCatalog(ctx, semesterURL)
	})
	if shared {
		s.metrics.SingleflightDedupTotal.Inc()
	}
	if err != nil {
		if courses, ok := s.cache.GetAny(semesterURL); ok {
			s.metrics.RecordCacheHit("stale")
			slog.WarnContext(ctx, "catalog refresh failed, serving stale cache",
				"semester_url", semesterURL,
				"count", len(courses),
				"error", err)
			return courses, nil
		}
		return nil, err
	}

	return result.([]nmu.Course), nil
}

func (s *Service) scrapeCatalog(ctx context.Context, semesterURL string) ([]nmu.Course, error) {
	start := time.Now()
	slog.InfoContext(ctx, "fetching semester catalog", "semester_url", semesterURL)

	doc, err := s.client.GetDocument(ctx, semesterURL)
	if err != nil {
		s.metrics.RecordScrape("catalog", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to fetch catalog %s: %w", semesterURL, err)
	}

	courses := nmu.ParseCatalog(doc, s.baseURL)
	if len(courses) == 0 {
		// An empty result is treated as a scrape failure and never
		// cached, so a transient page breakage cannot poison the cache.
		s.metrics.RecordScrape("catalog", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEmptyCatalog, semesterURL)
	}

	s.cache.Put(semesterURL, courses)
	s.metrics.RecordScrape("catalog", "success", time.Since(start).Seconds())
	slog.InfoContext(ctx, "catalog fetched",
		"semester_url", semesterURL,
		"count", len(courses),
		"duration_ms", time.Since(start).Milliseconds())

	return courses, nil
}

// FetchCourseDetails resolves courseID against the given course list and
// scrapes the course page. It returns ErrCourseNotFound when the ID is not
// in the list. Scrape failures never produce an error: the result degrades
// to the cached title with Degraded set, matching the behavior users expect
// from a flaky upstream.
func (s *Service) FetchCourseDetails(ctx context.Context, courseID string, courses []nmu.Course) (nmu.Details, []nmu.Material, error) {
	var course *nmu.Course
	for i := range courses {
		if courses[i].ID == courseID {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		return nmu.Details{}, nil, fmt.Errorf("%w: %s", apperrors.ErrCourseNotFound, courseID)
	}

	start := time.Now()
	slog.InfoContext(ctx, "fetching course details", "course_url", course.URL)

	doc, err := s.client.GetDocument(ctx, course.URL)
	if err != nil {
		s.metrics.RecordScrape("details", "error", time.Since(start).Seconds())
		slog.ErrorContext(ctx, "failed to fetch course details",
			"course_url", course.URL,
			"error", err)
		return nmu.Details{Title: course.Title, Degraded: true}, nil, nil
	}

	details := nmu.ParseDetails(doc, course.Title)
	materials := nmu.ParseMaterials(doc, course.URL)
	s.metrics.RecordScrape("details", "success", time.Since(start).Seconds())
	slog.DebugContext(ctx, "course details fetched",
		"course_url", course.URL,
		"syllabus_items", len(details.Syllabus),
		"materials", len(materials),
		"duration_ms", time.Since(start).Milliseconds())

	return details, materials, nil
}
