package tree

import (
	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
)

// Node is one move in the canonical tree. The root node has no move and
// stands for the starting position.
type Node struct {
	Move          *repertoire.Move `json:"move,omitempty"`
	Key           position.Key     `json:"key"`
	Children      []*Node          `json:"children,omitempty"`
	Transposition bool             `json:"transposition,omitempty"`
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.Move == nil }

// Mainline returns the first child, or nil for a leaf.
func (n *Node) Mainline() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Variations returns the children after the mainline.
func (n *Node) Variations() []*Node {
	if len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// SAN returns the move text, or "" for the root.
func (n *Node) SAN() string {
	if n.Move == nil {
		return ""
	}
	return n.Move.SAN
}

// Result is the output of Convert.
type Result struct {
	Root          *Node `json:"root"`
	PositionCount int   `json:"position_count"`
}

// Convert walks g from its root and returns the canonical tree.
//
// A move whose destination is missing from g fails the conversion with an
// [errors.DanglingReferenceError]; no partial tree is returned. A root with
// no moves is valid and yields a lone root with a PositionCount of 1.
func Convert(g *repertoire.Graph) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidRepertoire, "nil position graph")
	}
	rootPos, ok := g.Position(g.Root())
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRepertoire, "root position %q is not in the graph", g.Root())
	}

	visited := map[position.Key]bool{rootPos.Key: true}

	var expand func(n *Node, p *repertoire.Position) error
	expand = func(n *Node, p *repertoire.Position) error {
		for _, m := range p.Ordered() {
			dest, ok := g.Position(m.Dest)
			if !ok {
				return &errors.DanglingReferenceError{From: string(p.Key), SAN: m.SAN, Key: string(m.Dest)}
			}
			mv := m
			child := &Node{Move: &mv, Key: dest.Key}
			n.Children = append(n.Children, child)

			if visited[dest.Key] {
				child.Transposition = true
				continue
			}
			visited[dest.Key] = true
			if err := expand(child, dest); err != nil {
				return err
			}
		}
		return nil
	}

	root := &Node{Key: rootPos.Key}
	if err := expand(root, rootPos); err != nil {
		return nil, err
	}
	return &Result{Root: root, PositionCount: len(visited)}, nil
}
