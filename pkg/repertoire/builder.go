package repertoire

import (
	"regexp"
	"strings"

	"github.com/notnil/chess"

	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
)

// Builder assembles a repertoire by replaying SAN moves through the chess
// rules engine. Each move is validated against the position it is played
// from, its SAN is normalised, and the resulting position is keyed with the
// builder's [position.KeyFunc]. Moves by the repertoire's own color are
// marked as planned.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	rep   *Repertoire
	keyFn position.KeyFunc
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithKeyFunc sets the function used to key positions. The default is
// [position.Default].
func WithKeyFunc(fn position.KeyFunc) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.keyFn = fn
		}
	}
}

// NewBuilder validates the descriptor and creates a builder holding only
// the starting position.
func NewBuilder(d Descriptor, opts ...BuilderOption) (*Builder, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{keyFn: position.Default}
	for _, opt := range opts {
		opt(b)
	}

	fen, err := position.Normalize(d.FEN())
	if err != nil {
		return nil, err
	}
	key, err := b.keyFn(fen)
	if err != nil {
		return nil, err
	}
	d.StartingFEN = fen

	g := NewGraph(key)
	if err := g.AddPosition(Position{Key: key, FEN: fen}); err != nil {
		return nil, err
	}
	b.rep = &Repertoire{Descriptor: d, Graph: g}
	return b, nil
}

// Root returns the key of the starting position.
func (b *Builder) Root() position.Key { return b.rep.Graph.Root() }

// Play plays san from the position keyed from and returns the key of the
// resulting position. Playing a move that already exists is a no-op that
// returns the existing destination, so overlapping lines can be added in
// any order.
func (b *Builder) Play(from position.Key, san string) (position.Key, error) {
	p, ok := b.rep.Graph.Position(from)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown position %q", from)
	}
	cpos, err := chessPosition(p.FEN)
	if err != nil {
		return "", err
	}
	mv, err := decodeSAN(cpos, san)
	if err != nil {
		return "", err
	}
	norm := chess.AlgebraicNotation{}.Encode(cpos, mv)
	if existing, ok := p.Move(norm); ok {
		return existing.Dest, nil
	}

	next := cpos.Update(mv)
	fen := next.String()
	key, err := b.keyFn(fen)
	if err != nil {
		return "", err
	}
	if _, ok := b.rep.Graph.Position(key); !ok {
		if err := b.rep.Graph.AddPosition(Position{Key: key, FEN: fen}); err != nil {
			return "", err
		}
	}

	color := Black
	if cpos.Turn() == chess.White {
		color = White
	}
	m := Move{SAN: norm, Color: color, Planned: color == b.rep.Color, Dest: key}
	if err := b.rep.Graph.AddMove(from, m); err != nil {
		return "", err
	}
	return key, nil
}

// AddLine plays the moves from the starting position in order.
func (b *Builder) AddLine(sans ...string) error {
	cur := b.Root()
	for i, san := range sans {
		next, err := b.Play(cur, san)
		if err != nil {
			return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeIllegalMove), err,
				"line %q, ply %d", strings.Join(sans, " "), i+1)
		}
		cur = next
	}
	return nil
}

// Repertoire returns the repertoire built so far. The builder keeps
// ownership; further Play calls mutate the returned graph.
func (b *Builder) Repertoire() *Repertoire { return b.rep }

var (
	moveNumberRe = regexp.MustCompile(`^\d+\.+`)
	resultTokens = map[string]bool{"*": true, "1-0": true, "0-1": true, "1/2-1/2": true}
)

// ParseLine splits a line of movetext into SAN tokens. Move numbers
// ("1.", "1...", "12.e4") and result markers are dropped.
func ParseLine(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		tok = moveNumberRe.ReplaceAllString(tok, "")
		if tok == "" || resultTokens[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func chessPosition(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedFEN, err, "invalid FEN %q", fen)
	}
	return chess.NewGame(opt).Position(), nil
}

// decodeSAN resolves san against pos. Annotation glyphs are ignored and
// check markers are optional.
func decodeSAN(pos *chess.Position, san string) (*chess.Move, error) {
	clean := strings.TrimRight(strings.TrimSpace(san), "!?")
	if clean == "" {
		return nil, errors.New(errors.ErrCodeIllegalMove, "empty move")
	}
	if m, err := (chess.AlgebraicNotation{}).Decode(pos, clean); err == nil {
		return m, nil
	}
	want := strings.TrimRight(clean, "+#")
	for _, m := range pos.ValidMoves() {
		if strings.TrimRight(chess.AlgebraicNotation{}.Encode(pos, m), "+#") == want {
			return m, nil
		}
	}
	return nil, errors.New(errors.ErrCodeIllegalMove, "illegal move %q", san)
}
