package domain

import (
	"context"
	"time"
)

// Dispatcher schedules work on the single goroutine that owns model state.
// Background tasks hand their results back through Post and never touch
// model state themselves.
type Dispatcher interface {
	// Post queues fn to run on the owning goroutine
	Post(fn func())
}

// DataLoader is the asynchronous storage boundary used by the metadata
// models. Each request receives at most one reply, and replies always run
// on the owning goroutine.
//
//go:generate mockgen -destination=mocks/data_loader_mock.go -package=mocks github.com/genricoloni/lyra/internal/domain DataLoader
type DataLoader interface {
	// LoadByDatabaseID fetches the entity of the given kind by identifier
	LoadByDatabaseID(ctx context.Context, kind EntryKind, id int64, reply func(Record))

	// LoadByFileName fetches an entity by the path of its resource
	LoadByFileName(ctx context.Context, kind EntryKind, path string, reply func(Record))

	// Save inserts or updates rec; ack receives the stored record
	Save(ctx context.Context, rec Record, ack func(Record, error))

	// Delete removes the entity of the given kind and identifier
	Delete(ctx context.Context, kind EntryKind, id int64, ack func(error))
}

// MediaScanner extracts tags from a media resource. It is synchronous and
// may be slow, so callers run it off the owning goroutine.
//
//go:generate mockgen -destination=mocks/media_scanner_mock.go -package=mocks github.com/genricoloni/lyra/internal/domain MediaScanner
type MediaScanner interface {
	// Scan reads the tags of the resource at the given URL or path.
	// The result holds at least a Lyrics field, possibly empty.
	Scan(resource string) (FieldSet, error)
}

// Monitor follows playback of an external player
type Monitor interface {
	// Start begins monitoring for media events
	// It should block until context is cancelled or an error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits NowPlaying
	// when media playback state changes
	Events() <-chan NowPlaying
}

// Config defines the interface for application configuration
type Config interface {
	// GetDatabasePath returns the SQLite database location
	GetDatabasePath() string

	// GetCoverDir returns the directory for extracted cover thumbnails
	GetCoverDir() string

	// FollowNowPlaying reports whether the MPRIS follower is enabled
	FollowNowPlaying() bool

	// GetDebounce returns the quiet period before a now-playing change is applied
	GetDebounce() time.Duration
}
