// Package store persists repertoires for the HTTP server.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and single-shot servers
//   - [FileStore]: a directory of graph-form JSON files, one per repertoire
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// Every backend stores the graph-form encoding produced by
// [repio.Marshal], so a repertoire read back exports to the same PGN it
// was saved with.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	repio "github.com/repertree/repertree/pkg/io"
	"github.com/repertree/repertree/pkg/repertoire"
)

// ErrNotFound is returned when no repertoire has the requested id.
var ErrNotFound = errors.New("repertoire not found")

// Store persists repertoires by id.
type Store interface {
	// Get loads a repertoire. Missing ids wrap ErrNotFound.
	Get(ctx context.Context, id string) (*repertoire.Repertoire, error)
	// Put creates or replaces the repertoire with rep.ID.
	Put(ctx context.Context, rep *repertoire.Repertoire) error
	// List returns the descriptors of all repertoires ordered by id.
	List(ctx context.Context) ([]repertoire.Descriptor, error)
	// Delete removes a repertoire. Missing ids wrap ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func encode(rep *repertoire.Repertoire) ([]byte, error) {
	if rep == nil || rep.Graph == nil {
		return nil, errors.New("store: repertoire has no graph")
	}
	return repio.Marshal(rep)
}

func decode(data []byte) (*repertoire.Repertoire, error) {
	return repio.ReadJSON(bytes.NewReader(data))
}
