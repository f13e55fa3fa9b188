// Package cache stores rendered graph artifacts so that repeated draws of
// an unchanged graph skip Graphviz and librsvg.
//
// Three implementations are provided: [FileCache], which keeps entries as
// JSON files under a directory (the CLI uses the user cache directory),
// [MemoryCache], a bounded LRU used by the HTTP service, and [NullCache],
// which never stores anything. Keys are built with
// [ArtifactKey] from the content hash of the DOT source and the render
// options, so any change to the graph or the options misses.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
//
// Get reports a miss with ok == false and a nil error; an error means the
// backend itself failed. A ttl <= 0 passed to Set means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
