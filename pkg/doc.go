// Package pkg provides the core libraries for repertree, the opening
// repertoire to PGN converter.
//
// # Overview
//
// A repertoire is a graph of chess positions connected by moves: the
// player's planned moves and the opponent replies they prepared for. Lines
// that reach the same position by different move orders (transpositions)
// share a vertex. Repertree turns that graph into one PGN game whose
// variations cover every line exactly once.
//
// # Architecture
//
// The data flow:
//
//	Repertoire file (JSON graph, or TOML/YAML lines)
//	         ↓
//	    [io] package (decode, replay lines, build the graph)
//	         ↓
//	    [repertoire] package (graph model + validation)
//	         ↓
//	    [tree] package (depth-first conversion to a move tree)
//	         ↓
//	    [pgn] package (move text + header tags)
//	         ↓
//	    PGN document
//
// [pipeline] runs the conversion and serialization stages with caching,
// [store] persists repertoires for the HTTP API, and [render/nodelink] draws
// converted trees with Graphviz.
//
// # Packages
//
//   - [position]: FEN normalization and position keys
//   - [repertoire]: Graph, moves, builder, validation
//   - [tree]: Graph to move tree conversion and tree statistics
//   - [pgn]: Move text, metadata, and document assembly
//   - [io]: Repertoire file import and export
//   - [pipeline]: Cached convert and export stages, batch export
//   - [cache]: File, Redis, and null caches plus key derivation
//   - [store]: Memory, file, and MongoDB repertoire stores
//   - [render/nodelink]: DOT and SVG diagrams of move trees
//   - [observability]: Hooks for export, cache, and HTTP events
//   - [errors]: Coded errors and input validation
//   - [buildinfo]: Version information
//
// [position]: github.com/repertree/repertree/pkg/position
// [repertoire]: github.com/repertree/repertree/pkg/repertoire
// [tree]: github.com/repertree/repertree/pkg/tree
// [pgn]: github.com/repertree/repertree/pkg/pgn
// [io]: github.com/repertree/repertree/pkg/io
// [pipeline]: github.com/repertree/repertree/pkg/pipeline
// [cache]: github.com/repertree/repertree/pkg/cache
// [store]: github.com/repertree/repertree/pkg/store
// [render/nodelink]: github.com/repertree/repertree/pkg/render/nodelink
// [observability]: github.com/repertree/repertree/pkg/observability
// [errors]: github.com/repertree/repertree/pkg/errors
// [buildinfo]: github.com/repertree/repertree/pkg/buildinfo
package pkg
