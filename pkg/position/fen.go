package position

import (
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/repertree/repertree/pkg/errors"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Key identifies a board position for transposition purposes.
type Key string

// String returns the key text.
func (k Key) String() string { return string(k) }

// KeyFunc derives a Key from a FEN string.
type KeyFunc func(fen string) (Key, error)

// Default is the key function used when callers do not pick one.
var Default KeyFunc = Canonical

// Info holds the move-order fields of a FEN.
type Info struct {
	WhiteToMove bool
	FullMove    int
}

// Normalize validates fen and returns it in six-field form with single
// spaces between fields. Four-field FENs get "0 1" counters appended.
func Normalize(fen string) (string, error) {
	fields, err := split(fen)
	if err != nil {
		return "", err
	}
	norm := strings.Join(fields, " ")
	if _, err := chess.FEN(norm); err != nil {
		return "", errors.Wrap(errors.ErrCodeMalformedFEN, err, "invalid FEN %q", fen)
	}
	return norm, nil
}

// Inspect reports the side to move and full-move number of fen.
func Inspect(fen string) (Info, error) {
	norm, err := Normalize(fen)
	if err != nil {
		return Info{}, err
	}
	fields := strings.Fields(norm)
	n, _ := strconv.Atoi(fields[5])
	if n < 1 {
		n = 1
	}
	return Info{WhiteToMove: fields[1] == "w", FullMove: n}, nil
}

// Canonical builds the default transposition key for fen.
func Canonical(fen string) (Key, error) {
	return key(fen, false)
}

// Strict builds a key that keeps any recorded en-passant square.
func Strict(fen string) (Key, error) {
	return key(fen, true)
}

// MustKey is like Canonical but panics on error. Intended for tests and
// package-level constants.
func MustKey(fen string) Key {
	k, err := Canonical(fen)
	if err != nil {
		panic(err)
	}
	return k
}

func key(fen string, keepEP bool) (Key, error) {
	norm, err := Normalize(fen)
	if err != nil {
		return "", err
	}
	f := strings.Fields(norm)
	ep := f[3]
	if !keepEP && ep != "-" {
		ok, err := epCapturable(norm)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMalformedFEN, err, "invalid FEN %q", fen)
		}
		if !ok {
			ep = "-"
		}
	}
	return Key(strings.Join([]string{f[0], f[1], castling(f[2]), ep}, " ")), nil
}

func split(fen string) ([]string, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return nil, errors.New(errors.ErrCodeMalformedFEN, "invalid FEN %q: expected 4 or 6 fields, got %d", fen, len(fields))
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, errors.New(errors.ErrCodeMalformedFEN, "invalid FEN %q: side to move must be w or b", fen)
	}
	for _, counter := range fields[4:] {
		if n, err := strconv.Atoi(counter); err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeMalformedFEN, "invalid FEN %q: bad move counter %q", fen, counter)
		}
	}
	return fields, nil
}

// castling reorders castling rights as KQkq so equivalent FENs agree.
func castling(s string) string {
	if s == "-" {
		return s
	}
	var b strings.Builder
	for _, c := range "KQkq" {
		if strings.ContainsRune(s, c) {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// epCapturable reports whether the side to move has a legal en-passant
// capture. A pawn next to the double-stepped pawn is not enough: it may be
// pinned.
func epCapturable(fen string) (bool, error) {
	var pos chess.Position
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return false, err
	}
	for _, m := range pos.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return true, nil
		}
	}
	return false, nil
}
