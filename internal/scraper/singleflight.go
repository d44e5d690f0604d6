package scraper

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// FlightGroup collapses concurrent scrapes of the same key into a single
// in-flight request, preventing a cache stampede when many chats ask for
// the same catalog at once.
type FlightGroup struct {
	group singleflight.Group
}

// NewFlightGroup creates a new flight group.
func NewFlightGroup() *FlightGroup {
	return &FlightGroup{}
}

// Do executes fn for key, sharing the result with any callers that arrive
// while it is still running. shared reports whether this caller received a
// result produced by another goroutine.
func (f *FlightGroup) Do(ctx context.Context, key string, fn func() (interface{}, error)) (result interface{}, err error, shared bool) {
	result, err, shared = f.group.Do(key, func() (interface{}, error) {
		// Check context before executing
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		return fn()
	})

	return result, err, shared
}

// Forget removes a key from the group, allowing new requests to execute.
func (f *FlightGroup) Forget(key string) {
	f.group.Forget(key)
}
