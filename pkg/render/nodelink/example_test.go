package nodelink_test

import (
	"fmt"

	"github.com/repertree/repertree/pkg/render/nodelink"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

func ExampleToDOT() {
	b, _ := repertoire.NewBuilder(repertoire.Descriptor{ID: "kp", Name: "King's pawn", Color: repertoire.White})
	_ = b.AddLine("e4", "e5")
	res, _ := tree.Convert(b.Repertoire().Graph)

	dot, _ := nodelink.ToDOT(res.Root, nodelink.Options{Title: "King's pawn"})
	fmt.Print(dot)
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=18, margin="0.2,0.1"];
	//   ranksep=0.4;
	//   nodesep=0.25;
	//
	//   n0 [label="King's pawn", shape=ellipse];
	//   n1 [label="1. e4", fillcolor=lightblue];
	//   n0 -> n1 [penwidth=2.5];
	//   n2 [label="1... e5"];
	//   n1 -> n2 [penwidth=2.5];
	// }
}
