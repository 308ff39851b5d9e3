package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/assets"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
	pkgio "github.com/matzehuels/framespec/pkg/io"
	"github.com/matzehuels/framespec/pkg/pipeline"
)

// compileOpts holds the command-line flags shared by the artifact commands.
type compileOpts struct {
	frameID     string // compile this node's subtree instead of the whole file
	output      string // output file, or directory for --all (stdout if empty)
	all         bool   // write the full artifact set
	noCache     bool   // bypass the response cache
	token       string // access token override
	download    bool   // execute the asset plan after compiling
	saveDoc     string // save the fetched document for offline reuse
	document    string // compile a saved document instead of fetching
	pick        bool   // choose a frame interactively before compiling
	tokenFormat string // design-token serialization
}

// register adds the flags every artifact command shares.
func (o *compileOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.frameID, "frame", "", "compile only this node's subtree (e.g. 54:23)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&o.token, "token", "", "access token (overrides FIGMA_TOKEN and the config file)")
	cmd.Flags().BoolVar(&o.download, "download", false, "download referenced assets into the output directory")
	cmd.Flags().StringVar(&o.saveDoc, "save-document", "", "save the fetched document as JSON for offline compiles")
	cmd.Flags().StringVar(&o.document, "document", "", "compile a saved document instead of fetching")
	cmd.Flags().BoolVar(&o.pick, "pick", false, "pick a frame interactively before compiling")
}

// compileCommand creates the compile command, the default entry point.
// It renders the design-spec markdown, or with --all the full artifact set.
func (c *CLI) compileCommand() *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "compile [ref]",
		Short: "Compile a design file into the design-spec markdown",
		Long: `Compile a design file into the design-spec markdown.

The ref is a file key or a figma.com URL (file, design, proto, or board
form). A node-id query parameter in the URL, or the --frame flag, restricts
the compile to that node's subtree.

With --all, the full artifact set is written into a directory using the
conventional names (design-spec.md, design-tokens.*, content.md,
implementation-plan.md).

Examples:
  framespec compile AbCdEf1234567890AbCdEf
  framespec compile "https://www.figma.com/design/AbCdEf1234567890AbCdEf/Landing?node-id=54-23"
  framespec compile AbCdEf1234567890AbCdEf --all -o ./handoff
  framespec compile AbCdEf1234567890AbCdEf --save-document landing.json
  framespec compile --document landing.json -o design-spec.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifacts := []string{pipeline.ArtifactSpec}
			if opts.all {
				artifacts = pipeline.AllArtifacts
			}
			return c.runCompile(cmd.Context(), refArg(args), artifacts, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.all, "all", false, "write the full artifact set into a directory")
	cmd.Flags().StringVarP(&opts.tokenFormat, "format", "f", "", "design-token format for --all: css (default), scss, json, tailwind")

	return cmd
}

// refArg extracts the optional positional ref.
func refArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// runCompile is the shared core behind compile, tokens, content, and plan.
func (c *CLI) runCompile(ctx context.Context, ref string, artifacts []string, opts *compileOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	pOpts := pipeline.Options{
		Ref:         ref,
		FrameID:     opts.frameID,
		Artifacts:   artifacts,
		TokenFormat: opts.tokenFormat,
		Thresholds:  &cfg.Thresholds,
		Logger:      c.Logger,
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var api *figma.Client
	if opts.document != "" {
		if opts.download {
			return errors.New(errors.ErrCodeInvalidInput,
				"--download needs an online compile, not a saved document")
		}
		file, err := pkgio.ImportDocument(opts.document)
		if err != nil {
			return err
		}
		pOpts.File = file
		c.Logger.Debug("Compiling saved document", "path", opts.document)
	} else {
		token, err := c.resolveToken(opts.token)
		if err != nil {
			return err
		}
		api = runner.NewAPI(token, c.Logger)
		pOpts.API = api
	}

	if opts.pick && pOpts.File == nil && pOpts.FrameID == "" {
		frameID, err := c.pickFrame(ctx, runner, pOpts)
		if err != nil {
			return err
		}
		if frameID == "" {
			printDetail("No selection made")
			return nil
		}
		pOpts.FrameID = frameID
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Compiling %s...", strings.Join(artifacts, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, pOpts)
	if err != nil {
		spinner.StopWithError("Compile failed")
		return describeFailure(err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.saveDoc != "" {
		if err := pkgio.ExportDocument(result.File, opts.saveDoc); err != nil {
			return err
		}
		printInfo("Saved document")
		printFile(opts.saveDoc)
	}

	if len(artifacts) > 1 {
		return c.writeArtifactSet(ctx, api, cfg, ref, result, opts)
	}
	return c.writeArtifact(ctx, api, cfg, ref, result, artifacts[0], opts)
}

// writeArtifact writes a single artifact to opts.output or stdout. Decorative
// output is suppressed on stdout so the artifact can be piped cleanly.
func (c *CLI) writeArtifact(ctx context.Context, api *figma.Client, cfg *Config, ref string, result *pipeline.Result, artifact string, opts *compileOpts) error {
	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(result.Artifacts[artifact]); err != nil {
		return err
	}

	if opts.download {
		if err := c.downloadAssets(ctx, api, cfg, ref, outputDirFor(opts.output, cfg), result); err != nil {
			return err
		}
	}

	if opts.output == "" {
		return nil
	}

	printSuccess("Compiled %s", result.File.Name)
	printFile(opts.output)
	printStats(result.Stats.NodeCount, result.Stats.CompositeCount, cachedRun(result))
	if artifact == pipeline.ArtifactSpec && ref != "" {
		printNewline()
		printNextStep("Full artifact set", "framespec compile --all "+ref)
	}
	return nil
}

// writeArtifactSet writes the --all set into a directory with the
// conventional filenames.
func (c *CLI) writeArtifactSet(ctx context.Context, api *figma.Client, cfg *Config, ref string, result *pipeline.Result, opts *compileOpts) error {
	dir := outputDirFor(opts.output, cfg)

	paths, err := pkgio.WriteArtifacts(dir, result.Artifacts, opts.tokenFormat)
	if err != nil {
		return err
	}

	if opts.download {
		if err := c.downloadAssets(ctx, api, cfg, ref, dir, result); err != nil {
			return err
		}
	}

	printSuccess("Compiled %s", result.File.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.CompositeCount, cachedRun(result))
	return nil
}

// outputDirFor resolves the directory for artifact sets and assets:
// the --output value, else the configured output dir, else the working
// directory.
func outputDirFor(output string, cfg *Config) string {
	if output != "" {
		return output
	}
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return "."
}

// downloadAssets executes the run's asset plan with the same client that
// compiled it, so pacing and budget state carry over.
func (c *CLI) downloadAssets(ctx context.Context, api *figma.Client, cfg *Config, ref, dir string, result *pipeline.Result) error {
	if api == nil || ref == "" {
		printWarning("Skipping asset download: no live API client for this compile")
		return nil
	}
	parsed, err := figma.ParseRef(ref)
	if err != nil {
		return err
	}

	n := len(result.AssetPlan.Items)
	if n == 0 {
		c.Logger.Debug("Asset plan is empty, nothing to download")
		return nil
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Downloading %d assets...", n))
	spinner.Start()

	dl := assets.NewDownloader(assets.DownloadConfig{
		OutputDir: dir,
		Logger:    c.Logger,
	})
	res, err := dl.Run(ctx, api, parsed.FileKey, result.AssetPlan)
	if err != nil {
		spinner.StopWithError("Asset download failed")
		return err
	}
	spinner.Stop()

	printSuccess("Downloaded %d assets", len(res.Saved))
	if len(res.Skipped) > 0 {
		printWarning("Skipped %d assets without export URLs", len(res.Skipped))
	}
	if len(res.Failed) > 0 {
		printWarning("Failed to download %d assets", len(res.Failed))
		for _, o := range res.Failed {
			printDetail("%s: %v", o.Item.Path, o.Err)
		}
	}
	return nil
}

// cachedRun reports whether the compile was served entirely from cache.
func cachedRun(result *pipeline.Result) bool {
	req := result.Stats.Requests
	return req.NetworkCalls == 0 && (req.Hits > 0 || req.StaleServes > 0)
}

// describeFailure surfaces an error's remediation before returning it.
func describeFailure(err error) error {
	if r := errors.RemediationFor(err); r != "" {
		printDetail("%s", r)
	}
	return err
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
