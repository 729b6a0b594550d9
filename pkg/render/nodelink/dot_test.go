package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/repertree/repertree/pkg/repertoire/repertoiretest"
	"github.com/repertree/repertree/pkg/tree"
)

func convert(t *testing.T, i int) *tree.Result {
	t.Helper()
	res, err := tree.Convert(repertoiretest.Build(t, repertoiretest.Scenarios[i]).Graph)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return res
}

func TestToDOT_Basic(t *testing.T) {
	dot, err := ToDOT(convert(t, 0).Root, Options{})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"digraph G",
		`n0 [label="start", shape=ellipse];`,
		`n1 [label="1. e4", fillcolor=lightblue];`,
		`n2 [label="1... e5"];`,
		`n0 -> n1 [penwidth=2.5];`,
		`n1 -> n2 [penwidth=2.5];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Transposition(t *testing.T) {
	dot, err := ToDOT(convert(t, 1).Root, Options{Title: "Queen's pawn"})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`n0 [label="Queen's pawn", shape=ellipse];`,
		`n5 [label="1... e5"];`,
		`n1 -> n5;`,
		`n7 [label="2... d5\n(transposes)", style="rounded,filled,dashed", fillcolor=lightgrey];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n8") {
		t.Error("ToDOT() emitted more nodes than the tree has")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	res := convert(t, 0)
	dot, err := ToDOT(res.Root, Options{Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, string(res.Root.Children[0].Key)) {
		t.Error("ToDOT() detailed output missing position key")
	}
}

func TestToDOT_StartFEN(t *testing.T) {
	root := &tree.Node{}
	dot, err := ToDOT(root, Options{StartFEN: "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `n0 [label="start"`) {
		t.Errorf("ToDOT() should still emit the root:\n%s", dot)
	}

	if _, err := ToDOT(root, Options{StartFEN: "garbage"}); err == nil {
		t.Error("ToDOT() should reject a malformed FEN")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	a, _ := ToDOT(convert(t, 3).Root, Options{})
	b, _ := ToDOT(convert(t, 3).Root, Options{})
	if a != b {
		t.Error("ToDOT() output differs between runs")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Error("normalizeViewBox() should leave SVG without viewBox alone")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	dot, err := ToDOT(convert(t, 1).Root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() did not produce SVG")
	}
}
