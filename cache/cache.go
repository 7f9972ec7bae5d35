package cache

import (
	"context"
	"errors"
)

// ErrNotCached signals a plain cache miss, as opposed to a Redis failure.
var ErrNotCached = errors.New("not cached")

// FolioCache fronts the document store for the public read path and carries
// the pub/sub channel used to fan portfolio change events out to builder
// tabs.
type FolioCache interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handler func(message []byte)) error

	GetPublished(ctx context.Context, slug string) ([]byte, error)
	SetPublished(ctx context.Context, slug string, doc []byte) error
	InvalidatePublished(ctx context.Context, slug string) error
}
