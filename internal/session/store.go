// Package session keeps per-chat conversation state. The only state the bot
// needs is the course list a chat is currently browsing, so callback short
// IDs can be resolved without re-scraping.
package session

import (
	"sync"

	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
)

// Store holds the current course list per chat ID. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	courses map[int64][]nmu.Course
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{courses: make(map[int64][]nmu.Course)}
}

// SetCourses replaces the course list the chat is browsing.
func (s *Store) SetCourses(chatID int64, courses []nmu.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[chatID] = courses
}

// Courses returns the course list the chat is browsing, or nil when the chat
// has not opened a semester yet.
func (s *Store) Courses(chatID int64) []nmu.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses[chatID]
}

// Clear drops the chat's state, returning it to the semester menu baseline.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, chatID)
}

// Len returns the number of chats with stored state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}
