package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repertree/repertree/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; stdout when empty
	format   string // "dot" or "svg"
	detailed bool   // show position keys
}

// renderCommand creates the render command, which draws the move tree as a
// Graphviz diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render the move tree as a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show position keys")

	return cmd
}

// validateFormat checks that the requested format is supported.
func validateFormat(f string) error {
	switch f {
	case formatDOT, formatSVG:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", f)
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	rep, res, err := c.convertFile(cmd, path)
	if err != nil {
		return err
	}

	dot, err := nodelink.ToDOT(res.Root, nodelink.Options{
		StartFEN: rep.StartingFEN,
		Title:    rep.Name,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}

	data := []byte(dot)
	if opts.format == formatSVG {
		var spinner *Spinner
		if opts.output != "" {
			spinner = c.status.spin(cmd.Context(), "Rendering SVG...")
		}
		prog := newProgress(c.Logger)
		data, err = nodelink.RenderSVG(cmd.Context(), dot)
		if err != nil {
			if spinner != nil {
				spinner.StopWithError("Rendering failed")
			}
			return err
		}
		if spinner != nil {
			spinner.Stop()
		}
		prog.done("Rendered SVG")
	}

	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if !strings.HasSuffix(strings.ToLower(opts.output), "."+opts.format) {
		c.Logger.Warn("output extension does not match format", "output", opts.output, "format", opts.format)
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	c.status.success("Rendered %s", rep.Name)
	c.status.file(opts.output)
	return nil
}
