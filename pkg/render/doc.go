// Package render draws converted repertoire trees.
//
// The [nodelink] subpackage turns a move tree into a Graphviz diagram:
// one box per move, the mainline drawn bold, and transpositions drawn as
// dashed boxes that point back at the position they reach.
//
//	dot, err := nodelink.ToDOT(res.Root, nodelink.Options{StartFEN: fen})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/repertree/repertree/pkg/render/nodelink
package render
