package history

import (
	"context"

	"codeberg.org/mutker/envsensed/internal/scheduler"
)

// Recorder appends every successful publish to durable storage.
type Recorder interface {
	Record(ctx context.Context, p *scheduler.Publication) error
	Close() error
}

// Repository stores publications.
type Repository interface {
	Record(p *scheduler.Publication) error
	Close() error
}
