package realtime

import (
	"context"

	"github.com/spec-kit/board-sync/internal/events"
)

// Channel delivers realtime board events scoped to one project room.
// A session holds exactly one active room: joining a project implicitly
// leaves the previous one.
type Channel interface {
	// Join subscribes to a project's room.
	Join(ctx context.Context, projectID string) error
	// Leave unsubscribes from a project's room. Leaving a room that is
	// not joined is a no-op.
	Leave(ctx context.Context, projectID string) error
	// Events is the inbound event stream, in arrival order. It closes
	// when the channel is closed.
	Events() <-chan events.Envelope
	// Close tears the transport down.
	Close() error
}
