package repertoire

import (
	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
)

// Validate checks the descriptor: the color must be white or black and the
// starting FEN must pass canonicalization. An empty FEN means the standard
// initial position and is accepted.
func (d Descriptor) Validate() error {
	if !d.Color.Valid() {
		return errors.New(errors.ErrCodeInvalidRepertoire, "invalid color %q (must be white or black)", d.Color)
	}
	if _, err := position.Normalize(d.FEN()); err != nil {
		return err
	}
	return nil
}

// FEN returns the starting FEN, defaulting to the standard initial position.
func (d Descriptor) FEN() string {
	if d.StartingFEN == "" {
		return position.StartFEN
	}
	return d.StartingFEN
}

// Validate checks graph integrity:
//
//  1. The root position exists
//  2. Every move has a SAN and a valid color
//  3. Every move destination exists (otherwise a [errors.DanglingReferenceError])
//
// Positions are checked in insertion order so the first reported problem is
// deterministic.
func (g *Graph) Validate() error {
	if _, ok := g.positions[g.root]; !ok {
		return errors.New(errors.ErrCodeInvalidRepertoire, "root position %q is not in the graph", g.root)
	}
	for _, k := range g.order {
		p := g.positions[k]
		for _, m := range p.Moves {
			if m.SAN == "" {
				return errors.New(errors.ErrCodeInvalidRepertoire, "move without SAN at %q", k)
			}
			if !m.Color.Valid() {
				return errors.New(errors.ErrCodeInvalidRepertoire, "move %s at %q has invalid color %q", m.SAN, k, m.Color)
			}
			if _, ok := g.positions[m.Dest]; !ok {
				return &errors.DanglingReferenceError{From: string(k), SAN: m.SAN, Key: string(m.Dest)}
			}
		}
	}
	return nil
}

// Validate checks both the descriptor and the graph.
func (r *Repertoire) Validate() error {
	if err := r.Descriptor.Validate(); err != nil {
		return err
	}
	if r.Graph == nil {
		return errors.New(errors.ErrCodeInvalidRepertoire, "repertoire %q has no position graph", r.ID)
	}
	return r.Graph.Validate()
}
