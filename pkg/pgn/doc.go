// Package pgn serializes canonical repertoire trees as Portable Game
// Notation.
//
// # Document Layout
//
// A document is a block of tag pairs in a fixed order, a blank line, and a
// single line of move text:
//
//	[Event "Queen's Gambit"]
//	[Site "?"]
//	[Date "2024.01.31"]
//	[White "Queen's Gambit"]
//	[Black "?"]
//	[RepertoireId "qg"]
//	[RepertoireName "Queen's Gambit"]
//	[RepertoireColor "white"]
//	[FEN "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"]
//	[SetUp "1"]
//	[PositionCount "7"]
//
//	1. d4 d5 (1... e5 2. e4 d5) 2. e4 e5 *
//
// # Move Text
//
// The mainline of every node is written inline and its variations follow
// the mainline move in parentheses, before the mainline continues. Move
// numbers follow standard full-move counting starting from the FEN's
// move number and side to move. A Black move carries an "N..." prefix when
// it opens the game, opens a variation, or resumes the mainline after a
// variation. Transposition leaves end their line. The text always ends in
// the open result marker "*".
//
// Output is deterministic: the same tree and metadata always give the same
// bytes. Use [Collapse] to compare documents while ignoring whitespace.
package pgn
