// Package position turns FEN strings into the canonical keys used to detect
// transpositions.
//
// # Overview
//
// A repertoire graph indexes board positions by a [Key]. Two move orders
// transpose when they produce the same key, so the rule that builds keys is
// the single place that decides what "the same position" means. This package
// keeps that rule isolated behind [KeyFunc] so it can be changed without
// touching graph traversal or PGN output.
//
// # Key Rules
//
// [Canonical] (the default) keeps four FEN fields:
//
//   - piece placement
//   - side to move
//   - castling rights, reordered as KQkq
//   - the en-passant square, only when a pawn of the side to move can
//     actually capture en passant; otherwise "-"
//
// The half-move clock and full-move number are dropped, so positions reached
// after a different number of plies still compare equal.
//
// [Strict] keeps the en-passant square whenever the FEN records one. It is
// useful for callers that mirror engines which always emit it.
//
// # Validation
//
// FEN parsing is delegated to github.com/notnil/chess. [Normalize] returns
// the six-field form used in PGN headers and fails with a
// MALFORMED_FEN error for anything the rules library rejects.
package position
