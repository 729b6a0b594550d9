package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	repio "github.com/repertree/repertree/pkg/io"
	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

const iconTransposition = "↺"

// treeCommand creates the tree command, which prints the canonical move
// tree as an outline.
func (c *CLI) treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the move tree of a repertoire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, res, err := c.convertFile(cmd, args[0])
			if err != nil {
				return err
			}
			text, err := outline(rep, res)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.out, text)
			return err
		},
	}
}

// convertFile imports path and converts its graph.
func (c *CLI) convertFile(cmd *cobra.Command, path string) (*repertoire.Repertoire, *tree.Result, error) {
	rep, err := repio.Import(path)
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(cmd.Context(), true)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	res, err := runner.Convert(cmd.Context(), rep)
	if err != nil {
		return nil, nil, err
	}
	return rep, res, nil
}

// outline renders the tree with box-drawing connectors. The first child at
// each level is the mainline.
func outline(rep *repertoire.Repertoire, res *tree.Result) (string, error) {
	start, err := pgn.StartPly(rep.StartingFEN)
	if err != nil {
		return "", err
	}
	stats := tree.Summarize(res.Root)

	var b strings.Builder
	name := rep.Name
	if name == "" {
		name = rep.ID
	}
	b.WriteString(StyleTitle.Render(name) + " " + StyleDim.Render("("+string(rep.Color)+")") + "\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d positions · %d moves · %d transpositions",
		res.PositionCount, stats.Moves, stats.Transpositions)) + "\n")
	writeOutline(&b, res.Root, start, "")
	return b.String(), nil
}

func writeOutline(b *strings.Builder, n *tree.Node, p pgn.Ply, prefix string) {
	for i, c := range n.Children {
		connector, next := "├─ ", prefix+"│  "
		if i == len(n.Children)-1 {
			connector, next = "└─ ", prefix+"   "
		}
		b.WriteString(StyleDim.Render(prefix+connector) + moveLabel(c, p) + "\n")
		writeOutline(b, c, p.Next(), next)
	}
}

// moveLabel styles a move: planned moves highlighted, transpositions dimmed.
func moveLabel(n *tree.Node, p pgn.Ply) string {
	label := p.Label(n.SAN())
	switch {
	case n.Transposition:
		return StyleDim.Render(label + " " + iconTransposition)
	case n.Move != nil && n.Move.Planned:
		return StyleHighlight.Render(label)
	default:
		return StyleValue.Render(label)
	}
}
