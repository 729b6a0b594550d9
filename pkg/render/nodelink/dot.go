package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/tree"
)

// Fill colors.
const (
	PlannedFill       = "lightblue"
	ReplyFill         = "white"
	TranspositionFill = "lightgrey"
)

// Options configures node-link diagram rendering.
type Options struct {
	// StartFEN numbers the moves. Empty means the standard initial position.
	StartFEN string

	// Title labels the root box. Defaults to "start".
	Title string

	// Detailed adds the position key under each move.
	Detailed bool
}

// ToDOT converts a move tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(root *tree.Node, opts Options) (string, error) {
	start, err := pgn.StartPly(opts.StartFEN)
	if err != nil {
		return "", err
	}
	title := opts.Title
	if title == "" {
		title = "start"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%s, fontsize=18, margin=\"0.2,0.1\"];\n", ReplyFill)
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String(), nil
	}

	d := &dotWriter{buf: &buf, opts: opts}
	fmt.Fprintf(&buf, "  n0 [label=%q, shape=ellipse];\n", title)
	d.next = 1
	d.children("n0", root, start)
	buf.WriteString("}\n")
	return buf.String(), nil
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (d *dotWriter) children(parentID string, n *tree.Node, p pgn.Ply) {
	for i, c := range n.Children {
		id := "n" + strconv.Itoa(d.next)
		d.next++
		fmt.Fprintf(d.buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(c, p, d.opts.Detailed), ", "))
		edge := ""
		if i == 0 {
			edge = " [penwidth=2.5]"
		}
		fmt.Fprintf(d.buf, "  %s -> %s%s;\n", parentID, id, edge)
		d.children(id, c, p.Next())
	}
}

func fmtLabel(n *tree.Node, p pgn.Ply, detailed bool) string {
	label := p.Label(n.SAN())
	if n.Transposition {
		label += "\n(transposes)"
	}
	if detailed {
		label += "\n" + string(n.Key)
	}
	return label
}

func fmtAttrs(n *tree.Node, p pgn.Ply, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, p, detailed))}
	switch {
	case n.Transposition:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor="+TranspositionFill)
	case n.Move != nil && n.Move.Planned:
		attrs = append(attrs, "fillcolor="+PlannedFill)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
