// Package io reads and writes repertoire files.
//
// # Overview
//
// A repertoire file holds a descriptor plus the repertoire itself in one of
// two forms:
//
//   - Graph form: the position graph spelled out, as produced by
//     [WriteJSON]. Positions and moves are ordered lists, so discovery
//     order survives a round trip.
//   - Line form: a list of SAN lines replayed through a
//     [repertoire.Builder]. This is the convenient form to write by hand.
//
// Both forms can be written as JSON, TOML or YAML; [Import] picks the
// decoder from the file extension.
//
// # Graph Form
//
//	{
//	  "id": "qg",
//	  "name": "Queen's Gambit",
//	  "color": "white",
//	  "fen": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
//	  "root": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
//	  "positions": [
//	    {
//	      "key": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
//	      "fen": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
//	      "moves": [
//	        {"san": "d4", "color": "white", "planned": true, "dest": "..."}
//	      ]
//	    }
//	  ]
//	}
//
// A position without a key is keyed from its FEN. When root is omitted the
// first position is the root. Destinations are not checked on import; a
// move pointing at a missing position is reported when the repertoire is
// validated or converted.
//
// # Line Form
//
//	id = "qg"
//	name = "Queen's Gambit"
//	color = "white"
//	lines = [
//	  "1. d4 d5 2. e4 e5",
//	  "1. d4 e5 2. e4 d5",
//	]
//
// Move numbers and result markers are ignored. Each move is checked by the
// rules engine, so an illegal move fails the import with ILLEGAL_MOVE.
//
// # Identifiers
//
// A file without an id gets a name-based UUID derived from its contents,
// so importing the same file twice yields the same id and the same export.
package io
