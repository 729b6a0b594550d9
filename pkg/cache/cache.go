// Package cache provides pluggable caching for converted trees and PGN
// exports.
//
// Every backend implements [Cache]. The CLI uses [FileCache] under the
// user's cache directory, the HTTP server can share a [RedisCache] between
// instances, and [NullCache] disables caching. Keys are built by a
// [Keyer] from a content hash of the repertoire plus every option that
// affects the output, so a hit always returns exactly the bytes a fresh
// export would produce.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs. Exports are pure functions of their inputs, so entries only
// expire to bound disk and memory use.
const (
	TTLTree   = 7 * 24 * time.Hour
	TTLExport = 7 * 24 * time.Hour
)

// ExportKeyOpts holds the export options that change the PGN bytes.
type ExportKeyOpts struct {
	Date  string `json:"date"`
	Event string `json:"event"`
	Site  string `json:"site"`
	White string `json:"white"`
	Black string `json:"black"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey is the key of a converted tree for a repertoire hash.
	TreeKey(repHash string) string
	// ExportKey is the key of a PGN document for a repertoire hash and
	// header options.
	ExportKey(repHash string, opts ExportKeyOpts) string
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(repHash string) string {
	return "tree:" + repHash
}

// ExportKey returns "pgn:<hash of repertoire hash and options>".
func (DefaultKeyer) ExportKey(repHash string, opts ExportKeyOpts) string {
	return hashKey("pgn", repHash, opts)
}
