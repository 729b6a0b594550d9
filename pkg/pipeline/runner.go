package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/repertree/repertree/pkg/cache"
	"github.com/repertree/repertree/pkg/errors"
	repio "github.com/repertree/repertree/pkg/io"
	"github.com/repertree/repertree/pkg/observability"
	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

// Runner encapsulates export execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store export results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// treeEntry is the cached form of a converted tree. Only what the
// serializer needs is kept.
type treeEntry struct {
	MoveText      string     `json:"movetext"`
	PositionCount int        `json:"position_count"`
	Stats         tree.Stats `json:"stats"`
}

// exportEntry is the cached form of a finished document.
type exportEntry struct {
	PGN           string     `json:"pgn"`
	MoveText      string     `json:"movetext"`
	PositionCount int        `json:"position_count"`
	Stats         tree.Stats `json:"stats"`
}

// Convert validates rep and walks its graph into a tree. It is not cached:
// trees are only kept in serialized form.
func (r *Runner) Convert(ctx context.Context, rep *repertoire.Repertoire) (*tree.Result, error) {
	if err := checkRepertoire(rep); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Export()
	hooks.OnConvertStart(ctx, rep.ID)
	start := time.Now()
	res, err := tree.Convert(rep.Graph)
	count := 0
	if res != nil {
		count = res.PositionCount
	}
	hooks.OnConvertComplete(ctx, rep.ID, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("converted repertoire",
		"id", rep.ID,
		"positions", res.PositionCount,
		"duration", time.Since(start))
	return res, nil
}

// Export converts rep and serializes it as a PGN document.
//
// The document is looked up under the export key first, then the move text
// under the tree key; a full miss converts the graph. Failures are never
// cached.
func (r *Runner) Export(ctx context.Context, rep *repertoire.Repertoire, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := checkRepertoire(rep); err != nil {
		return nil, err
	}
	if err := rep.Descriptor.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := repio.Marshal(rep)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash repertoire %s", rep.ID)
	}
	repHash := cache.Hash(data)
	exportKey := r.Keyer.ExportKey(repHash, opts.ExportKeyOpts())

	if !opts.Refresh {
		if e, ok := r.lookupExport(ctx, exportKey); ok {
			r.Logger.Debug("export cache hit", "id", rep.ID)
			return &Result{
				PGN:           []byte(e.PGN),
				MoveText:      e.MoveText,
				PositionCount: e.PositionCount,
				Tree:          e.Stats,
				Duration:      time.Since(start),
				CacheInfo:     CacheInfo{TreeHit: true, ExportHit: true},
			}, nil
		}
	}

	t, treeHit, err := r.moveText(ctx, rep, repHash, opts.Refresh)
	if err != nil {
		return nil, err
	}

	hooks := observability.Export()
	hooks.OnExportStart(ctx, rep.ID)
	serializeStart := time.Now()
	meta, err := pgn.NewMetadata(rep.Descriptor, t.PositionCount, opts.Date, opts.PGNOptions().Overrides)
	if err != nil {
		hooks.OnExportComplete(ctx, rep.ID, 0, time.Since(serializeStart), err)
		return nil, err
	}
	doc := &pgn.Document{Metadata: meta, MoveText: t.MoveText}
	out := doc.Bytes()
	hooks.OnExportComplete(ctx, rep.ID, len(out), time.Since(serializeStart), nil)

	r.store(ctx, "pgn", exportKey, exportEntry{
		PGN:           string(out),
		MoveText:      t.MoveText,
		PositionCount: t.PositionCount,
		Stats:         t.Stats,
	}, cache.TTLExport)

	res := &Result{
		PGN:           out,
		MoveText:      t.MoveText,
		PositionCount: t.PositionCount,
		Tree:          t.Stats,
		Duration:      time.Since(start),
		CacheInfo:     CacheInfo{TreeHit: treeHit},
	}
	opts.Logger.Info("exported repertoire",
		"id", rep.ID,
		"positions", res.PositionCount,
		"bytes", len(out),
		"duration", res.Duration)
	return res, nil
}

// ExportAll exports reps concurrently with at most jobs in flight. Results
// keep the input order. The first failure cancels the remaining exports.
func (r *Runner) ExportAll(ctx context.Context, reps []*repertoire.Repertoire, opts Options, jobs int) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	results := make([]*Result, len(reps))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i, rep := range reps {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			res, err := r.Export(groupCtx, rep, opts)
			if err != nil {
				id := ""
				if rep != nil {
					id = rep.ID
				}
				return fmt.Errorf("export %s: %w", id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// moveText returns the serialized move text from the tree cache or by
// converting the graph.
func (r *Runner) moveText(ctx context.Context, rep *repertoire.Repertoire, repHash string, refresh bool) (treeEntry, bool, error) {
	key := r.Keyer.TreeKey(repHash)
	if !refresh {
		var e treeEntry
		if r.lookup(ctx, "tree", key, &e) {
			return e, true, nil
		}
	}

	res, err := r.Convert(ctx, rep)
	if err != nil {
		return treeEntry{}, false, err
	}
	fen, err := position.Normalize(rep.Descriptor.FEN())
	if err != nil {
		return treeEntry{}, false, err
	}
	text, err := pgn.MoveText(res.Root, fen)
	if err != nil {
		return treeEntry{}, false, err
	}
	e := treeEntry{
		MoveText:      text,
		PositionCount: res.PositionCount,
		Stats:         tree.Summarize(res.Root),
	}
	r.store(ctx, "tree", key, e, cache.TTLTree)
	return e, false, nil
}

func (r *Runner) lookupExport(ctx context.Context, key string) (exportEntry, bool) {
	var e exportEntry
	ok := r.lookup(ctx, "pgn", key, &e)
	return e, ok
}

// lookup reads and decodes a cache entry. Backend failures and undecodable
// entries count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func checkRepertoire(rep *repertoire.Repertoire) error {
	if rep == nil {
		return errors.New(errors.ErrCodeInvalidRepertoire, "nil repertoire")
	}
	if rep.Graph == nil {
		return errors.New(errors.ErrCodeInvalidRepertoire, "repertoire %s has no graph", rep.ID)
	}
	return nil
}
