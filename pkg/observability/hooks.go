// Package observability lets the binary plug metrics or tracing into the
// export pipeline, the caches, and the HTTP server without those packages
// importing a backend.
//
// Three hook sets exist: [ExportHooks] for conversion and serialization,
// [CacheHooks] for lookups and writes, and [HTTPHooks] for served requests.
// Each defaults to a no-op. main registers real implementations once, before
// any work starts; library code only ever reads them:
//
//	observability.Export().OnConvertStart(ctx, rep.ID)
//	res, err := tree.Convert(rep.Graph)
//	observability.Export().OnConvertComplete(ctx, rep.ID, res.PositionCount, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ExportHooks observes the two pipeline stages: graph to tree conversion,
// then PGN serialization.
type ExportHooks interface {
	OnConvertStart(ctx context.Context, repertoireID string)
	OnConvertComplete(ctx context.Context, repertoireID string, positionCount int, duration time.Duration, err error)
	OnExportStart(ctx context.Context, repertoireID string)
	OnExportComplete(ctx context.Context, repertoireID string, size int, duration time.Duration, err error)
}

// CacheHooks observes cache traffic. keyType is "tree" or "pgn".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes served requests.
type HTTPHooks interface {
	// OnRequest fires before routing.
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires after the handler returns. route is the matched
	// pattern, empty when nothing matched.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopExportHooks struct{}

func (NoopExportHooks) OnConvertStart(context.Context, string)                               {}
func (NoopExportHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {}
func (NoopExportHooks) OnExportStart(context.Context, string)                                {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error)  {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook set. Reads are lock-free since every
// export and request goes through them.
type slot[T any] struct {
	cur  atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if p := s.cur.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.cur.Store(&h)
	}
}

var (
	exportSlot = slot[ExportHooks]{noop: NoopExportHooks{}}
	cacheSlot  = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot   = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetExportHooks registers h. A nil h keeps the current hooks.
func SetExportHooks(h ExportHooks) { exportSlot.set(h) }

// SetCacheHooks registers h. A nil h keeps the current hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers h. A nil h keeps the current hooks.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

func Export() ExportHooks { return exportSlot.get() }
func Cache() CacheHooks   { return cacheSlot.get() }
func HTTP() HTTPHooks     { return httpSlot.get() }

// Reset restores the no-op hooks. Tests that register hooks defer it.
func Reset() {
	exportSlot.cur.Store(nil)
	cacheSlot.cur.Store(nil)
	httpSlot.cur.Store(nil)
}
