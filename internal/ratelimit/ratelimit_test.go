package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowConsumesBurst(t *testing.T) {
	l := New(3, 0.001) // effectively no refill during the test

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "bucket exhausted after burst")
}

func TestLimiter_Refill(t *testing.T) {
	l := New(1, 50) // 50 tokens/sec -> one token every 20ms

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow(), "token should refill after waiting")
}

func TestLimiter_RefillCapped(t *testing.T) {
	l := New(2, 1000)

	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, l.Available(), 2.0, "refill must not exceed capacity")
}

func TestLimiter_IsFullAndReset(t *testing.T) {
	l := New(5, 0.001)

	assert.True(t, l.IsFull())
	l.Allow()
	assert.False(t, l.IsFull())

	l.Reset()
	assert.True(t, l.IsFull())
}

func TestLimiter_Concurrent(t *testing.T) {
	l := New(100, 0.001)

	done := make(chan int)
	for range 4 {
		go func() {
			allowed := 0
			for range 50 {
				if l.Allow() {
					allowed++
				}
			}
			done <- allowed
		}()
	}

	total := 0
	for range 4 {
		total += <-done
	}

	assert.Equal(t, 100, total, "exactly the burst capacity should be admitted")
}
