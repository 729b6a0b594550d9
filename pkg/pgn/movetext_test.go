package pgn

import (
	"testing"

	rterrors "github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

func mv(san string, c repertoire.Color, children ...*tree.Node) *tree.Node {
	return &tree.Node{Move: &repertoire.Move{SAN: san, Color: c}, Children: children}
}

func white(san string, children ...*tree.Node) *tree.Node { return mv(san, repertoire.White, children...) }
func black(san string, children ...*tree.Node) *tree.Node { return mv(san, repertoire.Black, children...) }

func TestMoveText(t *testing.T) {
	const afterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"

	tests := []struct {
		name string
		root *tree.Node
		fen  string
		want string
	}{
		{
			name: "empty",
			root: &tree.Node{},
			want: "*",
		},
		{
			name: "single white move",
			root: &tree.Node{Children: []*tree.Node{white("Nf3")}},
			want: "1. Nf3 *",
		},
		{
			name: "variation on white's move",
			root: &tree.Node{Children: []*tree.Node{
				white("e4", black("e5")),
				white("d4", black("d5")),
			}},
			want: "1. e4 (1. d4 d5) 1... e5 *",
		},
		{
			name: "nested variations",
			root: &tree.Node{Children: []*tree.Node{
				white("e4",
					black("c5", white("Nf3", black("d6")), white("c3", black("Nf6"), black("d5"))),
					black("e6", white("d4")),
				),
			}},
			want: "1. e4 c5 (1... e6 2. d4) 2. Nf3 (2. c3 Nf6 (2... d5)) 2... d6 *",
		},
		{
			name: "starts with black",
			root: &tree.Node{Children: []*tree.Node{black("c5", white("Nf3"))}},
			fen:  afterE4,
			want: "1... c5 2. Nf3 *",
		},
		{
			name: "starts at a later move",
			root: &tree.Node{Children: []*tree.Node{white("Bb5", black("a6"))}},
			fen:  "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
			want: "3. Bb5 a6 *",
		},
		{
			name: "transposition leaf ends the line",
			root: &tree.Node{Children: []*tree.Node{
				white("Nf3", black("Nf6", white("g3")), &tree.Node{Move: &repertoire.Move{SAN: "d5", Color: repertoire.Black}, Transposition: true}),
			}},
			want: "1. Nf3 Nf6 (1... d5) 2. g3 *",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveText(tt.root, tt.fen)
			if err != nil {
				t.Fatalf("MoveText: %v", err)
			}
			if got != tt.want {
				t.Errorf("MoveText() =\n %s\nwant\n %s", got, tt.want)
			}
		})
	}
}

func TestMoveTextNumberingAfterVariation(t *testing.T) {
	tests := []struct {
		name string
		root *tree.Node
		want string
	}{
		{
			name: "black resumes with its number",
			root: &tree.Node{Children: []*tree.Node{
				white("e4", black("c5",
					white("Nf3", black("d6")),
					white("Nc3", black("Nc6")),
				)),
			}},
			want: "1. e4 c5 2. Nf3 (2. Nc3 Nc6) 2... d6 *",
		},
		{
			name: "no variation, no repeat",
			root: &tree.Node{Children: []*tree.Node{
				white("e4", black("c5", white("Nf3", black("d6")))),
			}},
			want: "1. e4 c5 2. Nf3 d6 *",
		},
		{
			name: "white after a black variation",
			root: &tree.Node{Children: []*tree.Node{
				white("e4",
					black("c5", white("Nf3")),
					black("e5"),
				),
			}},
			want: "1. e4 c5 (1... e5) 2. Nf3 *",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveText(tt.root, "")
			if err != nil {
				t.Fatalf("MoveText: %v", err)
			}
			if got != tt.want {
				t.Errorf("MoveText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveTextWrongSide(t *testing.T) {
	root := &tree.Node{Children: []*tree.Node{black("e5")}}
	if _, err := MoveText(root, ""); !rterrors.Is(err, rterrors.ErrCodeInvalidRepertoire) {
		t.Errorf("MoveText() = %v, want INVALID_REPERTOIRE", err)
	}
}

func TestMoveTextBadFEN(t *testing.T) {
	if _, err := MoveText(&tree.Node{}, "nope"); !rterrors.Is(err, rterrors.ErrCodeMalformedFEN) {
		t.Errorf("MoveText() = %v, want MALFORMED_FEN", err)
	}
}

func TestCursor(t *testing.T) {
	c := cursor{number: 1, white: true}
	c = c.next()
	if c.number != 1 || c.white {
		t.Errorf("after white: %+v", c)
	}
	c = c.next()
	if c.number != 2 || !c.white {
		t.Errorf("after black: %+v", c)
	}
}

func TestPly(t *testing.T) {
	p, err := StartPly("")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Label("e4"); got != "1. e4" {
		t.Errorf("Label = %q", got)
	}
	p = p.Next()
	if got := p.Label("c5"); got != "1... c5" {
		t.Errorf("Label = %q", got)
	}
	if got := p.Next().Label("Nf3"); got != "2. Nf3" {
		t.Errorf("Label = %q", got)
	}

	p, err = StartPly("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	if p != (Ply{Number: 2, White: true}) {
		t.Errorf("StartPly = %+v, want 2 white", p)
	}
	if _, err := StartPly("nope"); err == nil {
		t.Error("StartPly should reject a malformed FEN")
	}
}
