// Package nodelink renders move trees as node-link diagrams.
//
// # Overview
//
// Each tree node becomes a box labelled with its numbered move ("1. e4",
// "1... c5"). Moves the repertoire player plans to play are filled, the
// opponent's replies are left white. Edges to mainline children are drawn
// bold so the main line reads top to bottom; a transposition leaf is drawn
// dashed.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot, err := nodelink.ToDOT(res.Root, nodelink.Options{StartFEN: fen})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// Node IDs are assigned in pre-order ("n0" for the root), so equal trees
// give byte-identical DOT.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
