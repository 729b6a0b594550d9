// Package tree collapses a repertoire's position graph into a canonical
// move tree.
//
// # Overview
//
// A [repertoire.Graph] is keyed by position, so transpositions make it a
// graph rather than a tree and cycles are possible. Readable notation needs
// a tree. [Convert] produces one with a depth-first walk that expands every
// position exactly once:
//
//   - The first time a position is reached its node is expanded and its
//     moves become children.
//   - Every later arrival at the same position becomes a transposition
//     leaf: a node holding the move but no children.
//
// The result is always finite and acyclic, and the work done is bounded by
// the number of positions in the graph.
//
// # Child Ordering
//
// Children follow [repertoire.Position.Ordered]: planned moves first, then
// opponent replies, each in discovery order. Children[0] is the mainline
// continuation and the rest are variations. No step depends on map
// iteration, so the same graph always yields the same tree.
//
// # Position Count
//
// [Result.PositionCount] is the number of distinct position keys visited,
// including the root. A position reached along several paths is counted
// once.
package tree
