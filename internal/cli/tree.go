package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/framespec/pkg/io"
	"github.com/matzehuels/framespec/pkg/pipeline"
	"github.com/matzehuels/framespec/pkg/render"
)

const (
	treeFormatDOT = "dot"
	treeFormatSVG = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	frameID  string // restrict to this node's subtree
	output   string // output file (stdout if empty)
	noCache  bool   // bypass the response cache
	token    string // access token override
	document string // render a saved document instead of fetching
	detailed bool   // add node type and dimensions to labels
	depth    int    // stop the walk below this depth (0 = unlimited)
	format   string // "dot" or "svg"
}

// treeCommand creates the tree command, a debug aid that exports the node
// hierarchy as a Graphviz diagram.
func (c *CLI) treeCommand() *cobra.Command {
	opts := &treeOpts{}

	cmd := &cobra.Command{
		Use:   "tree [ref]",
		Short: "Export the node hierarchy as a Graphviz diagram",
		Long: `Export the file's layer hierarchy as a Graphviz diagram, one box per
node with parent-child edges. Hidden layers render dashed, text layers
yellow. Useful for understanding how the compiler sees a file.

The default output is DOT text; --format svg renders it with the embedded
Graphviz engine.

Examples:
  framespec tree AbCdEf1234567890AbCdEf
  framespec tree AbCdEf1234567890AbCdEf --depth 3 --detailed
  framespec tree AbCdEf1234567890AbCdEf -f svg -o tree.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTreeFormat(opts.format); err != nil {
				return err
			}
			return c.runTree(cmd.Context(), refArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.frameID, "frame", "", "export only this node's subtree (e.g. 54:23)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.token, "token", "", "access token (overrides FIGMA_TOKEN and the config file)")
	cmd.Flags().StringVar(&opts.document, "document", "", "render a saved document instead of fetching")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types and dimensions in labels")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum tree depth (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", treeFormatDOT, "output format: dot (default), svg")

	return cmd
}

// validateTreeFormat checks that the format is either "dot" or "svg".
func validateTreeFormat(f string) error {
	if f != treeFormatDOT && f != treeFormatSVG {
		return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", f)
	}
	return nil
}

// runTree compiles the tree artifact and writes it in the requested format.
func (c *CLI) runTree(ctx context.Context, ref string, opts *treeOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pOpts := pipeline.Options{
		Ref:          ref,
		FrameID:      opts.frameID,
		Artifacts:    []string{pipeline.ArtifactTree},
		TreeDetailed: opts.detailed,
		TreeDepth:    opts.depth,
		Thresholds:   &cfg.Thresholds,
		Logger:       c.Logger,
	}

	if opts.document != "" {
		file, err := pkgio.ImportDocument(opts.document)
		if err != nil {
			return err
		}
		pOpts.File = file
	} else {
		token, err := c.resolveToken(opts.token)
		if err != nil {
			return err
		}
		pOpts.API = runner.NewAPI(token, c.Logger)
	}

	spinner := newSpinnerWithContext(ctx, "Computing node tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, pOpts)
	if err != nil {
		spinner.StopWithError("Tree export failed")
		return describeFailure(err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := result.Artifacts[pipeline.ArtifactTree]
	if opts.format == treeFormatSVG {
		svg, err := render.TreeSVG(string(data))
		if err != nil {
			return err
		}
		data = svg
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Exported %s tree", result.File.Name)
		printFile(opts.output)
		printStats(result.Stats.NodeCount, result.Stats.CompositeCount, cachedRun(result))
	}
	return nil
}
