package tree

import "errors"

// SkipChildren can be returned from a WalkFunc to skip the node's subtree.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each node in pre-order. depth is 0 for the root.
type WalkFunc func(n *Node, depth int) error

// Walk visits root and its descendants depth-first, mainline before
// variations. Returning SkipChildren prunes the subtree; any other error
// stops the walk and is returned.
func Walk(root *Node, fn WalkFunc) error {
	err := walk(root, 0, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk(n *Node, depth int, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(n, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	for _, c := range n.Children {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarises a tree.
type Stats struct {
	Moves          int // nodes excluding the root
	Transpositions int // transposition leaves
	Variations     int // children beyond the mainline
	Leaves         int // nodes without children, transpositions included
	MaxDepth       int // plies on the longest path
}

// Summarize computes Stats for the tree under root.
func Summarize(root *Node) Stats {
	var s Stats
	_ = Walk(root, func(n *Node, depth int) error {
		if !n.IsRoot() {
			s.Moves++
		}
		if n.Transposition {
			s.Transpositions++
		}
		if len(n.Children) == 0 && !n.IsRoot() {
			s.Leaves++
		}
		if len(n.Children) > 1 {
			s.Variations += len(n.Children) - 1
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		return nil
	})
	return s
}

// Line returns the SAN moves from root along the mainline.
func Line(root *Node) []string {
	var out []string
	for n := root.Mainline(); n != nil; n = n.Mainline() {
		out = append(out, n.SAN())
	}
	return out
}
