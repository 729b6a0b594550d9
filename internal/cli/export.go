package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	repio "github.com/repertree/repertree/pkg/io"
	"github.com/repertree/repertree/pkg/pipeline"
	"github.com/repertree/repertree/pkg/repertoire"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	exportFlags
	output string // output file (single input) or directory
	jobs   int    // concurrent exports
}

// exportCommand creates the export command: repertoire files in, PGN out.
//
// A single file without -o is written to stdout. Otherwise each repertoire
// is written as <id>.pgn under the -o directory, or to the -o file when
// exactly one input is given and -o ends in .pgn.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{jobs: pipeline.DefaultJobs}

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export repertoire files as PGN",
		Long: `Export converts each repertoire file (JSON graph, or TOML/YAML lines) into a
PGN document with one game whose variations cover the whole repertoire.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input) or directory")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of concurrent exports")
	opts.register(cmd)

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, files []string, opts exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	reps := make([]*repertoire.Repertoire, 0, len(files))
	for _, f := range files {
		rep, err := repio.Import(f)
		if err != nil {
			return err
		}
		logger.Debug("imported repertoire", "file", f, "id", rep.ID, "positions", rep.Graph.Len())
		reps = append(reps, rep)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := opts.options(c.config())
	pipeOpts.Logger = logger

	prog := newProgress(logger)
	if opts.output == "" && len(files) == 1 {
		results, err := runner.ExportAll(ctx, reps, pipeOpts, 1)
		if err != nil {
			return err
		}
		_, err = c.out.Write(results[0].PGN)
		return err
	}

	paths, err := outputPaths(opts.output, reps)
	if err != nil {
		return err
	}
	spinner := c.status.spin(ctx, fmt.Sprintf("Exporting %d repertoire(s)...", len(reps)))
	results, err := runner.ExportAll(ctx, reps, pipeOpts, opts.jobs)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	for i, res := range results {
		if err := os.WriteFile(paths[i], res.PGN, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[i], err)
		}
	}

	msg := fmt.Sprintf("Exported %d repertoire(s)", len(results))
	c.status.success("%s", msg)
	prog.done(msg)
	for i, res := range results {
		c.status.file(paths[i])
		c.status.stats(res.PositionCount, res.Tree.Transpositions, res.CacheInfo.ExportHit)
	}
	if len(files) == 1 {
		c.status.next("Browse the tree", appName+" browse "+files[0])
	}
	return nil
}

// outputPaths decides where each export is written. An -o ending in .pgn
// with a single input names the file; anything else is a directory.
func outputPaths(output string, reps []*repertoire.Repertoire) ([]string, error) {
	if output == "" {
		output = "."
	}
	if len(reps) == 1 && strings.EqualFold(filepath.Ext(output), ".pgn") {
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		return []string{output}, nil
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, len(reps))
	seen := make(map[string]bool, len(reps))
	for i, rep := range reps {
		p := filepath.Join(output, rep.ID+".pgn")
		if seen[p] {
			return nil, fmt.Errorf("two repertoires share the id %q", rep.ID)
		}
		seen[p] = true
		paths[i] = p
	}
	return paths, nil
}
