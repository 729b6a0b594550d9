package tree

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	rterrors "github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/repertoire/repertoiretest"
)

// shape renders the children of n as "san(children) | san(...)", marking
// transposition leaves with "=".
func shape(n *Node) string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		s := c.SAN()
		if c.Transposition {
			s += "="
		}
		if len(c.Children) > 0 {
			s += "(" + shape(c) + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " | ")
}

func TestConvertScenarios(t *testing.T) {
	shapes := map[string]string{
		"linear":                     "e4(e5)",
		"single-transposition":       "d4(d5(e4(e5)) | e5(e4(d5=)))",
		"nested-replies":             "d4(d5(e4(e5(g3(Nc6 | Nf6)))) | e5(e4(d5=)))",
		"multi-level-transpositions": "a3(a6(Nc3(Nc6(h3(h6(Nf3(Nf6)))))) | h6(h3(Nf6(Nf3(Nc6(Nc3(a6=)))))) | Nf6(h3(h6=)))",
	}

	for _, s := range repertoiretest.Scenarios {
		t.Run(s.Name, func(t *testing.T) {
			rep := repertoiretest.Build(t, s)
			res, err := Convert(rep.Graph)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got := shape(res.Root); got != shapes[s.Name] {
				t.Errorf("tree = %s\nwant   %s", got, shapes[s.Name])
			}
			if res.PositionCount != s.PositionCount {
				t.Errorf("PositionCount = %d, want %d", res.PositionCount, s.PositionCount)
			}
			if res.PositionCount != rep.Graph.Len() {
				t.Errorf("PositionCount = %d, but the graph has %d reachable positions", res.PositionCount, rep.Graph.Len())
			}
		})
	}
}

func TestConvertEmptyRepertoire(t *testing.T) {
	g := repertoire.NewGraph("start")
	_ = g.AddPosition(repertoire.Position{Key: "start"})

	res, err := Convert(g)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Root.IsRoot() || len(res.Root.Children) != 0 {
		t.Errorf("expected a lone root, got %d children", len(res.Root.Children))
	}
	if res.PositionCount != 1 {
		t.Errorf("PositionCount = %d, want 1", res.PositionCount)
	}
}

func TestConvertDanglingReference(t *testing.T) {
	g := repertoire.NewGraph("a")
	_ = g.AddPosition(repertoire.Position{Key: "a"})
	_ = g.AddPosition(repertoire.Position{Key: "b"})
	_ = g.AddMove("a", repertoire.Move{SAN: "e4", Color: repertoire.White, Planned: true, Dest: "b"})
	_ = g.AddMove("b", repertoire.Move{SAN: "e5", Color: repertoire.Black, Dest: "gone"})

	res, err := Convert(g)
	if res != nil {
		t.Error("no partial result on failure")
	}
	var dr *rterrors.DanglingReferenceError
	if !errors.As(err, &dr) {
		t.Fatalf("Convert() = %v, want DanglingReferenceError", err)
	}
	if dr.SAN != "e5" || dr.Key != "gone" || dr.From != "b" {
		t.Errorf("unexpected error fields: %+v", dr)
	}
	if !rterrors.Is(err, rterrors.ErrCodeDanglingReference) {
		t.Error("error should carry DANGLING_REFERENCE")
	}
}

func TestConvertMissingRoot(t *testing.T) {
	g := repertoire.NewGraph("a")
	if _, err := Convert(g); !rterrors.Is(err, rterrors.ErrCodeInvalidRepertoire) {
		t.Errorf("Convert() = %v, want INVALID_REPERTOIRE", err)
	}
	if _, err := Convert(nil); !rterrors.Is(err, rterrors.ErrCodeInvalidRepertoire) {
		t.Errorf("Convert(nil) = %v, want INVALID_REPERTOIRE", err)
	}
}

func TestConvertCycle(t *testing.T) {
	// Knights out and back: the fourth move returns to the start.
	g := repertoire.NewGraph("a")
	for _, k := range []string{"a", "b", "c", "d"} {
		_ = g.AddPosition(repertoire.Position{Key: position.Key(k)})
	}
	_ = g.AddMove("a", repertoire.Move{SAN: "Nf3", Color: repertoire.White, Planned: true, Dest: "b"})
	_ = g.AddMove("b", repertoire.Move{SAN: "Nf6", Color: repertoire.Black, Dest: "c"})
	_ = g.AddMove("c", repertoire.Move{SAN: "Ng1", Color: repertoire.White, Planned: true, Dest: "d"})
	_ = g.AddMove("d", repertoire.Move{SAN: "Ng8", Color: repertoire.Black, Dest: "a"})

	res, err := Convert(g)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got, want := shape(res.Root), "Nf3(Nf6(Ng1(Ng8=)))"; got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
	if res.PositionCount != 4 {
		t.Errorf("PositionCount = %d, want 4", res.PositionCount)
	}
}

func TestConvertPlannedMovesFirst(t *testing.T) {
	// A reply discovered before a planned move still sorts after it.
	g := repertoire.NewGraph("a")
	for _, k := range []string{"a", "b", "c"} {
		_ = g.AddPosition(repertoire.Position{Key: position.Key(k)})
	}
	_ = g.AddMove("a", repertoire.Move{SAN: "e5", Color: repertoire.Black, Dest: "b"})
	_ = g.AddMove("a", repertoire.Move{SAN: "c5", Color: repertoire.Black, Planned: true, Dest: "c"})

	res, err := Convert(g)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Root.Mainline().SAN(); got != "c5" {
		t.Errorf("mainline = %s, want c5", got)
	}
}

func TestConvertDeterministic(t *testing.T) {
	s := repertoiretest.Scenarios[len(repertoiretest.Scenarios)-1]
	rep := repertoiretest.Build(t, s)

	first, err := Convert(rep.Graph)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := Convert(rep.Graph)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("conversion %d differs from the first", i)
		}
	}
}

func TestConvertDoesNotAliasGraphMoves(t *testing.T) {
	rep := repertoiretest.Build(t, repertoiretest.Scenarios[0])
	res, err := Convert(rep.Graph)
	if err != nil {
		t.Fatal(err)
	}
	res.Root.Children[0].Move.SAN = "d4"

	root, _ := rep.Graph.Position(rep.Graph.Root())
	if root.Moves[0].SAN != "e4" {
		t.Error("tree nodes must not point into the graph")
	}
}
