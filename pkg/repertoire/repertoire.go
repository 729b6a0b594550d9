// Package repertoire models an opening repertoire as a graph of positions.
//
// # Overview
//
// A repertoire is a player's chosen moves for one side plus every opponent
// reply they must be ready for. Positions are indexed by a canonical
// [position.Key], so different move orders that reach the same board share
// one [Position]. The result is a directed graph which may contain
// transpositions and, in principle, cycles.
//
// # Ordering Contract
//
// Both the positions of a [Graph] and the moves of a [Position] are ordered
// sequences. Insertion order is discovery order, and downstream consumers
// (the tree converter in particular) rely on it to pick mainlines. Nothing in
// this package ever reorders moves.
//
// # Building
//
// Graphs can be assembled directly with [Graph.AddPosition] and
// [Graph.AddMove], or by replaying SAN lines through a [Builder], which
// validates each move with the chess rules engine.
package repertoire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/repertree/repertree/pkg/position"
)

var (
	// ErrDuplicatePosition is returned by [Graph.AddPosition] when the key is
	// already present.
	ErrDuplicatePosition = errors.New("duplicate position key")

	// ErrUnknownPosition is returned by [Graph.AddMove] when the source
	// position does not exist.
	ErrUnknownPosition = errors.New("unknown position")

	// ErrDuplicateMove is returned by [Graph.AddMove] when the position
	// already has a move with the same SAN.
	ErrDuplicateMove = errors.New("duplicate move")

	// ErrEmptyKey is returned when a position or destination key is empty.
	ErrEmptyKey = errors.New("position key must not be empty")
)

// Color is the side a repertoire is prepared for, or the side making a move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// ParseColor accepts "white"/"black" and the FEN letters "w"/"b",
// case-insensitively.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return "", fmt.Errorf("invalid color %q (must be white or black)", s)
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Title returns the capitalised color name ("White", "Black").
func (c Color) Title() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return string(c)
}

// Valid reports whether c is White or Black.
func (c Color) Valid() bool { return c == White || c == Black }

// Descriptor is the descriptive metadata of a repertoire.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       Color  `json:"color"`
	StartingFEN string `json:"fen"`
}

// Move is one edge of the graph: a SAN move from its owning position.
type Move struct {
	SAN     string       `json:"san"`
	Color   Color        `json:"color"`
	Planned bool         `json:"planned"` // the player's own move rather than an opponent reply
	Dest    position.Key `json:"dest"`
}

// Position is a graph vertex. Moves are kept in discovery order.
type Position struct {
	Key   position.Key
	FEN   string
	Moves []Move
}

// Move returns the move with the given SAN, if present.
func (p *Position) Move(san string) (Move, bool) {
	for _, m := range p.Moves {
		if m.SAN == san {
			return m, true
		}
	}
	return Move{}, false
}

// Ordered returns the moves in traversal priority: planned moves first,
// then replies, each group in discovery order.
func (p *Position) Ordered() []Move {
	out := make([]Move, 0, len(p.Moves))
	for _, m := range p.Moves {
		if m.Planned {
			out = append(out, m)
		}
	}
	for _, m := range p.Moves {
		if !m.Planned {
			out = append(out, m)
		}
	}
	return out
}

// Graph is an insertion-ordered position graph with a designated root.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent modification; concurrent readers are fine.
type Graph struct {
	root      position.Key
	positions map[position.Key]*Position
	order     []position.Key
}

// NewGraph creates an empty graph whose root is the given key. The root
// position itself still has to be added.
func NewGraph(root position.Key) *Graph {
	return &Graph{
		root:      root,
		positions: make(map[position.Key]*Position),
	}
}

// Root returns the root key.
func (g *Graph) Root() position.Key { return g.root }

// AddPosition adds a position with no moves (any moves on p are copied).
func (g *Graph) AddPosition(p Position) error {
	if p.Key == "" {
		return ErrEmptyKey
	}
	if _, exists := g.positions[p.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePosition, p.Key)
	}
	cp := p
	cp.Moves = append([]Move(nil), p.Moves...)
	g.positions[p.Key] = &cp
	g.order = append(g.order, p.Key)
	return nil
}

// AddMove appends m to the moves of the position keyed from. The
// destination is not required to exist yet; use Validate once the graph is
// complete.
func (g *Graph) AddMove(from position.Key, m Move) error {
	p, ok := g.positions[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, from)
	}
	if m.Dest == "" {
		return ErrEmptyKey
	}
	if _, dup := p.Move(m.SAN); dup {
		return fmt.Errorf("%w: %s at %s", ErrDuplicateMove, m.SAN, from)
	}
	p.Moves = append(p.Moves, m)
	return nil
}

// Position returns the position with the given key.
func (g *Graph) Position(key position.Key) (*Position, bool) {
	p, ok := g.positions[key]
	return p, ok
}

// Positions returns all positions in insertion order.
func (g *Graph) Positions() []*Position {
	out := make([]*Position, len(g.order))
	for i, k := range g.order {
		out[i] = g.positions[k]
	}
	return out
}

// Len returns the number of positions.
func (g *Graph) Len() int { return len(g.order) }

// MoveCount returns the total number of moves across all positions.
func (g *Graph) MoveCount() int {
	n := 0
	for _, p := range g.positions {
		n += len(p.Moves)
	}
	return n
}

// Repertoire couples a descriptor with its position graph.
type Repertoire struct {
	Descriptor
	Graph *Graph
}
