// Package pipeline runs the convert → serialize export with caching.
//
// The CLI, the HTTP server and batch exports all go through a [Runner] so
// that cache keys, hooks and logging behave the same at every entry point.
//
// # Stages
//
//  1. Convert: walk the repertoire graph into a move tree
//  2. Serialize: render the tree as PGN move text under a tag header
//
// The move text of a repertoire does not depend on header options, so it is
// cached separately under a tree key; changing Event or Date only misses
// the export entry.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Export(ctx, rep, pipeline.Options{Date: "2024.01.31"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(res.PGN)
package pipeline

import (
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/repertree/repertree/pkg/cache"
	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/tree"
)

// DefaultJobs is the number of repertoires ExportAll converts at once.
const DefaultJobs = 4

// datePattern accepts PGN dates with unknown parts, e.g. "2024.??.??".
var datePattern = regexp.MustCompile(`^(\d{4}|\?{4})\.(\d{2}|\?{2})\.(\d{2}|\?{2})$`)

// =============================================================================
// Options - Export Configuration
// =============================================================================

// Options contains all configuration for an export.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Header options
	Date  string `json:"date,omitempty"`
	Event string `json:"event,omitempty"`
	Site  string `json:"site,omitempty"`
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`

	// Refresh bypasses cache reads. Fresh results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of an export.
type Result struct {
	// PGN is the complete document: tags, blank line, move text.
	PGN []byte

	// MoveText is the move text alone.
	MoveText string

	// PositionCount is the number of distinct positions visited.
	PositionCount int

	// Tree summarises the converted tree.
	Tree tree.Stats

	// Duration is the wall time of the export.
	Duration time.Duration

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	TreeHit   bool // Whether the move text came from cache
	ExportHit bool // Whether the whole document came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateDate checks a PGN date. Unknown parts are written as '?'.
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid date: %q (must be YYYY.MM.DD, '?' for unknown parts)", date)
	}
	if strings.ContainsRune(date, '?') {
		return nil
	}
	if _, err := time.Parse(pgn.DateLayout, date); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid date: %q", date)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Date == "" {
		o.Date = pgn.UnknownDate
	}
	if err := ValidateDate(o.Date); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// PGNOptions returns the serializer options.
func (o Options) PGNOptions() pgn.Options {
	return pgn.Options{
		Date: o.Date,
		Overrides: pgn.Overrides{
			Event: o.Event,
			Site:  o.Site,
			White: o.White,
			Black: o.Black,
		},
	}
}

// ExportKeyOpts returns the options that affect the cached document.
func (o Options) ExportKeyOpts() cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		Date:  o.Date,
		Event: o.Event,
		Site:  o.Site,
		White: o.White,
		Black: o.Black,
	}
}
