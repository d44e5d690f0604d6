package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
)

func TestStore(t *testing.T) {
	t.Run("empty store returns nil", func(t *testing.T) {
		s := NewStore()
		assert.Nil(t, s.Courses(1))
	})

	t.Run("set and get per chat", func(t *testing.T) {
		s := NewStore()
		a := []nmu.Course{{ID: "aaaaaaaa", Title: "A"}}
		b := []nmu.Course{{ID: "bbbbbbbb", Title: "B"}}

		s.SetCourses(1, a)
		s.SetCourses(2, b)

		assert.Equal(t, a, s.Courses(1))
		assert.Equal(t, b, s.Courses(2))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("set overwrites previous list", func(t *testing.T) {
		s := NewStore()
		s.SetCourses(1, []nmu.Course{{ID: "aaaaaaaa"}})
		s.SetCourses(1, []nmu.Course{{ID: "bbbbbbbb"}})

		courses := s.Courses(1)
		assert.Len(t, courses, 1)
		assert.Equal(t, "bbbbbbbb", courses[0].ID)
	})

	t.Run("clear removes chat state", func(t *testing.T) {
		s := NewStore()
		s.SetCourses(1, []nmu.Course{{ID: "aaaaaaaa"}})
		s.Clear(1)

		assert.Nil(t, s.Courses(1))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		s := NewStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				s.SetCourses(id, []nmu.Course{{ID: "aaaaaaaa"}})
				_ = s.Courses(id)
			}(int64(i % 5))
		}
		wg.Wait()

		assert.Equal(t, 5, s.Len())
	})
}
