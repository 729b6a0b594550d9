// Package repertoiretest provides reference repertoires for tests.
package repertoiretest

import (
	"testing"

	"github.com/repertree/repertree/pkg/repertoire"
)

// Scenario is a repertoire built from SAN lines together with its expected
// export.
type Scenario struct {
	Name          string
	Color         repertoire.Color
	Lines         []string
	MoveText      string // expected PGN move text, result marker included
	PositionCount int
}

// Scenarios are the reference repertoires, from a single line up to
// nested transpositions. Lines are listed in discovery order.
//
// PositionCount counts every distinct position visited, the starting
// position included: "e4 e5" visits three. Transposition leaves add
// nothing.
var Scenarios = []Scenario{
	{
		Name:          "linear",
		Color:         repertoire.White,
		Lines:         []string{"e4 e5"},
		MoveText:      "1. e4 e5 *",
		PositionCount: 3,
	},
	{
		Name:  "single-transposition",
		Color: repertoire.White,
		Lines: []string{
			"d4 d5 e4 e5",
			"d4 e5 e4 d5",
		},
		MoveText:      "1. d4 d5 (1... e5 2. e4 d5) 2. e4 e5 *",
		PositionCount: 7,
	},
	{
		Name:  "nested-replies",
		Color: repertoire.White,
		Lines: []string{
			"d4 d5 e4 e5",
			"d4 e5 e4 d5",
			"d4 d5 e4 e5 g3 Nc6",
			"d4 d5 e4 e5 g3 Nf6",
		},
		MoveText:      "1. d4 d5 (1... e5 2. e4 d5) 2. e4 e5 3. g3 Nc6 (3... Nf6) *",
		PositionCount: 10,
	},
	{
		Name:  "multi-level-transpositions",
		Color: repertoire.White,
		Lines: []string{
			"a3 a6 Nc3 Nc6 h3 h6 Nf3 Nf6",
			"a3 h6 h3 Nf6 Nf3 Nc6 Nc3 a6",
			"a3 Nf6 h3 h6",
		},
		MoveText:      "1. a3 a6 (1... h6 2. h3 Nf6 3. Nf3 Nc6 4. Nc3 a6) (1... Nf6 2. h3 h6) 2. Nc3 Nc6 3. h3 h6 4. Nf3 Nf6 *",
		PositionCount: 17,
	},
}

// Build replays s into a repertoire with the given id and name.
func Build(tb testing.TB, s Scenario) *repertoire.Repertoire {
	tb.Helper()
	b, err := repertoire.NewBuilder(repertoire.Descriptor{
		ID:    s.Name,
		Name:  s.Name,
		Color: s.Color,
	})
	if err != nil {
		tb.Fatalf("NewBuilder: %v", err)
	}
	for _, line := range s.Lines {
		if err := b.AddLine(repertoire.ParseLine(line)...); err != nil {
			tb.Fatalf("AddLine(%q): %v", line, err)
		}
	}
	return b.Repertoire()
}
