package pipeline

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/repertree/repertree/pkg/cache"
	rterrors "github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/observability"
	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/repertoire/repertoiretest"
)

const testDate = "2024.01.31"

// memCache is a map-backed cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2024.01.31", false},
		{"????.??.??", false},
		{"2024.??.??", false},
		{"2024.02.30", true},
		{"2024-01-31", true},
		{"24.01.31", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateDate(tt.date)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
		}
		if err != nil && !rterrors.Is(err, rterrors.ErrCodeInvalidInput) {
			t.Errorf("ValidateDate(%q) code = %s, want INVALID_INPUT", tt.date, rterrors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Empty options should pass: %v", err)
	}
	if opts.Date != pgn.UnknownDate {
		t.Errorf("Date should be %s, got %s", pgn.UnknownDate, opts.Date)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Date: testDate, Event: "Prep"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	logger := opts.Logger

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Logger != logger || opts.Date != testDate {
		t.Error("options changed on second call")
	}
}

func TestExportKeyOptsTracksHeaders(t *testing.T) {
	a := Options{Date: testDate}.ExportKeyOpts()
	b := Options{Date: testDate, Event: "Club"}.ExportKeyOpts()
	if a == b {
		t.Error("Event should change the export key options")
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.ExportKey("h", a) == keyer.ExportKey("h", b) {
		t.Error("different headers should give different export keys")
	}
}

func TestRunnerExportScenarios(t *testing.T) {
	r := quietRunner(nil)
	for _, sc := range repertoiretest.Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			res, err := r.Export(context.Background(), repertoiretest.Build(t, sc), Options{Date: testDate})
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if res.MoveText != sc.MoveText {
				t.Errorf("MoveText = %q, want %q", res.MoveText, sc.MoveText)
			}
			if res.PositionCount != sc.PositionCount {
				t.Errorf("PositionCount = %d, want %d", res.PositionCount, sc.PositionCount)
			}

			doc, err := pgn.Export(repertoiretest.Build(t, sc), pgn.Options{Date: testDate})
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(res.PGN, doc.Bytes()) {
				t.Errorf("runner output differs from pgn.Export:\n%s\nvs\n%s", res.PGN, doc.Bytes())
			}
		})
	}
}

func TestRunnerExportCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)
	rep := repertoiretest.Build(t, repertoiretest.Scenarios[3])

	first, err := r.Export(ctx, rep, Options{Date: testDate})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.TreeHit || first.CacheInfo.ExportHit {
		t.Errorf("first export should miss: %+v", first.CacheInfo)
	}
	if c.len() != 2 {
		t.Fatalf("cache holds %d entries, want tree and export", c.len())
	}

	second, err := r.Export(ctx, rep, Options{Date: testDate})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ExportHit {
		t.Error("second export should hit the export cache")
	}
	if !bytes.Equal(first.PGN, second.PGN) || second.PositionCount != first.PositionCount {
		t.Error("cached export differs from fresh export")
	}
	if second.Tree != first.Tree {
		t.Errorf("cached stats = %+v, want %+v", second.Tree, first.Tree)
	}

	// New header: the move text is reused, the document is rebuilt.
	third, err := r.Export(ctx, rep, Options{Date: testDate, Event: "Club night"})
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.TreeHit || third.CacheInfo.ExportHit {
		t.Errorf("header change should hit tree only: %+v", third.CacheInfo)
	}
	if !bytes.Contains(third.PGN, []byte(`[Event "Club night"]`)) {
		t.Errorf("Event override missing:\n%s", third.PGN)
	}

	sets := c.sets
	fresh, err := r.Export(ctx, rep, Options{Date: testDate, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.TreeHit || fresh.CacheInfo.ExportHit {
		t.Error("Refresh should bypass cache reads")
	}
	if c.sets <= sets {
		t.Error("Refresh should still write fresh entries")
	}
}

func TestRunnerExportGraphChangeMisses(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(newMemCache())

	b, err := repertoire.NewBuilder(repertoire.Descriptor{ID: "grow", Name: "Grow", Color: repertoire.White})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.AddLine("e4", "e5"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Export(ctx, b.Repertoire(), Options{Date: testDate}); err != nil {
		t.Fatal(err)
	}

	if err := b.AddLine("e4", "c5"); err != nil {
		t.Fatal(err)
	}
	res, err := r.Export(ctx, b.Repertoire(), Options{Date: testDate})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.TreeHit {
		t.Error("a changed graph must not hit the old tree entry")
	}
	if want := "1. e4 e5 (1... c5) *"; res.MoveText != want {
		t.Errorf("MoveText = %q, want %q", res.MoveText, want)
	}
}

func TestRunnerExportErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)

	root := position.MustKey(position.StartFEN)
	g := repertoire.NewGraph(root)
	_ = g.AddPosition(repertoire.Position{Key: root, FEN: position.StartFEN})
	_ = g.AddMove(root, repertoire.Move{SAN: "e4", Color: repertoire.White, Planned: true, Dest: "missing"})
	rep := &repertoire.Repertoire{
		Descriptor: repertoire.Descriptor{ID: "broken", Name: "Broken", Color: repertoire.White},
		Graph:      g,
	}

	for i := 0; i < 2; i++ {
		_, err := r.Export(ctx, rep, Options{Date: testDate})
		var dangling *rterrors.DanglingReferenceError
		if !errors.As(err, &dangling) {
			t.Fatalf("Export = %v, want DanglingReferenceError", err)
		}
	}
	if c.len() != 0 {
		t.Errorf("failed exports left %d cache entries", c.len())
	}
}

func TestRunnerExportInvalid(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	if _, err := r.Export(ctx, nil, Options{}); !rterrors.Is(err, rterrors.ErrCodeInvalidRepertoire) {
		t.Errorf("nil repertoire: %v", err)
	}
	rep := &repertoire.Repertoire{Descriptor: repertoire.Descriptor{ID: "x", Color: repertoire.White}}
	if _, err := r.Export(ctx, rep, Options{}); !rterrors.Is(err, rterrors.ErrCodeInvalidRepertoire) {
		t.Errorf("nil graph: %v", err)
	}
	rep = repertoiretest.Build(t, repertoiretest.Scenarios[0])
	if _, err := r.Export(ctx, rep, Options{Date: "yesterday"}); !rterrors.Is(err, rterrors.ErrCodeInvalidInput) {
		t.Errorf("bad date: %v", err)
	}
	rep.StartingFEN = "not a fen"
	if _, err := r.Export(ctx, rep, Options{}); !rterrors.Is(err, rterrors.ErrCodeMalformedFEN) {
		t.Errorf("bad FEN: %v", err)
	}
}

func TestRunnerExportAll(t *testing.T) {
	r := quietRunner(newMemCache())
	var reps []*repertoire.Repertoire
	for _, sc := range repertoiretest.Scenarios {
		reps = append(reps, repertoiretest.Build(t, sc))
	}

	results, err := r.ExportAll(context.Background(), reps, Options{Date: testDate}, 2)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	for i, sc := range repertoiretest.Scenarios {
		if results[i].MoveText != sc.MoveText {
			t.Errorf("results[%d] = %q, want %q", i, results[i].MoveText, sc.MoveText)
		}
	}

	reps = append(reps, nil)
	if _, err := r.ExportAll(context.Background(), reps, Options{Date: testDate}, 0); err == nil {
		t.Error("ExportAll should fail when one repertoire is invalid")
	}
}

type recordingHooks struct {
	observability.NoopExportHooks
	mu        sync.Mutex
	converted []int
	exported  []int
}

func (h *recordingHooks) OnConvertComplete(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.converted = append(h.converted, n)
}

func (h *recordingHooks) OnExportComplete(_ context.Context, _ string, size int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exported = append(h.exported, size)
}

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetExportHooks(h)
	defer observability.Reset()

	r := quietRunner(newMemCache())
	rep := repertoiretest.Build(t, repertoiretest.Scenarios[1])
	res, err := r.Export(context.Background(), rep, Options{Date: testDate})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Export(context.Background(), rep, Options{Date: testDate}); err != nil {
		t.Fatal(err)
	}

	if len(h.converted) != 1 || h.converted[0] != 7 {
		t.Errorf("convert hooks = %v, want one call with 7 positions", h.converted)
	}
	if len(h.exported) != 1 || h.exported[0] != len(res.PGN) {
		t.Errorf("export hooks = %v, want one call with %d bytes", h.exported, len(res.PGN))
	}
}
