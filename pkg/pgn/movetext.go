package pgn

import (
	"strconv"
	"strings"

	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

// Result is the termination marker written after the move text.
const Result = "*"

// cursor tracks numbering along one line of play. It is passed by value so
// each variation numbers itself from its own branch point.
type cursor struct {
	number int
	white  bool
}

func (c cursor) next() cursor {
	if !c.white {
		c.number++
	}
	c.white = !c.white
	return c
}

func (c cursor) color() repertoire.Color {
	if c.white {
		return repertoire.White
	}
	return repertoire.Black
}

// MoveText renders the tree under root starting from startFEN, including
// the trailing result marker. An empty startFEN means the standard initial
// position.
func MoveText(root *tree.Node, startFEN string) (string, error) {
	if startFEN == "" {
		startFEN = position.StartFEN
	}
	info, err := position.Inspect(startFEN)
	if err != nil {
		return "", err
	}
	if root == nil {
		return "", errors.New(errors.ErrCodeInvalidRepertoire, "nil tree")
	}

	w := &textWriter{}
	if err := w.line(root, cursor{number: info.FullMove, white: info.WhiteToMove}, true); err != nil {
		return "", err
	}
	w.token(Result)
	return w.String(), nil
}

type textWriter struct {
	strings.Builder
}

// token appends s separated by a space, except at the start or directly
// after an opening parenthesis.
func (w *textWriter) token(s string) {
	if w.Len() > 0 && !strings.HasSuffix(w.String(), "(") {
		w.WriteByte(' ')
	}
	w.WriteString(s)
}

func (w *textWriter) move(n *tree.Node, c cursor, numbered bool) error {
	if n.Move.Color != "" && n.Move.Color != c.color() {
		return errors.New(errors.ErrCodeInvalidRepertoire,
			"move %s is played by %s but %s is to move", n.Move.SAN, n.Move.Color, c.color())
	}
	switch {
	case c.white:
		w.token(strconv.Itoa(c.number) + ".")
	case numbered:
		w.token(strconv.Itoa(c.number) + "...")
	}
	w.token(n.Move.SAN)
	return nil
}

// line writes the continuation below n: its mainline move, then each
// variation in parentheses, then the rest of the mainline.
func (w *textWriter) line(n *tree.Node, c cursor, numbered bool) error {
	for {
		main := n.Mainline()
		if main == nil {
			return nil
		}
		if err := w.move(main, c, numbered); err != nil {
			return err
		}
		after := c.next()

		vars := n.Variations()
		for _, v := range vars {
			w.token("(")
			if err := w.move(v, c, true); err != nil {
				return err
			}
			if err := w.line(v, after, false); err != nil {
				return err
			}
			w.WriteString(")")
		}

		// A second-side move right after a closed variation repeats its
		// number ("2... d6") so the reader can find the mainline again.
		numbered = len(vars) > 0
		n, c = main, after
	}
}

// Ply locates a move in numbered notation. Renderers outside the move text
// use it to label moves the same way.
type Ply struct {
	Number int
	White  bool
}

// StartPly returns the ply of the first move after fen. An empty fen means
// the standard initial position.
func StartPly(fen string) (Ply, error) {
	if fen == "" {
		fen = position.StartFEN
	}
	info, err := position.Inspect(fen)
	if err != nil {
		return Ply{}, err
	}
	return Ply{Number: info.FullMove, White: info.WhiteToMove}, nil
}

// Next returns the ply after p.
func (p Ply) Next() Ply {
	c := cursor{number: p.Number, white: p.White}.next()
	return Ply{Number: c.number, White: c.white}
}

// Label returns san numbered for p: "1. e4" or "1... e5".
func (p Ply) Label(san string) string {
	if p.White {
		return strconv.Itoa(p.Number) + ". " + san
	}
	return strconv.Itoa(p.Number) + "... " + san
}
