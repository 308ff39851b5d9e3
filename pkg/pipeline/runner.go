package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/assets"
	"github.com/matzehuels/framespec/pkg/cache"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
	"github.com/matzehuels/framespec/pkg/observability"
	"github.com/matzehuels/framespec/pkg/render"
)

// Runner executes the compile pipeline. Both CLI and server use it so the
// two entry points cannot drift apart.
//
// The Runner is stateless except for the cache and logger; it does not store
// run results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// NewAPI builds an API client wired to the runner's cache. The client is
// stateful (pacing, budget latch) and belongs to exactly one run; callers
// that also download assets should reuse the same client for that.
func (r *Runner) NewAPI(token string, logger *log.Logger) *figma.Client {
	if logger == nil {
		logger = r.Logger
	}
	return figma.NewClient(figma.ClientConfig{
		Token:  token,
		Cache:  r.Cache,
		Keyer:  r.Keyer,
		Logger: logger,
	})
}

// Execute runs the complete fetch → analyze → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	hooks := observability.Compile()
	t := opts.ThresholdsOrDefault()

	result := &Result{
		RunID:     runID,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	file, label, err := r.fetch(ctx, &opts)
	result.Stats.FetchTime = time.Since(fetchStart)
	if err != nil {
		hooks.OnFetchComplete(ctx, label, 0, result.Stats.FetchTime, err)
		return nil, err
	}
	result.File = file
	result.Stats.NodeCount = countNodes(file.Document)
	hooks.OnFetchComplete(ctx, label, result.Stats.NodeCount, result.Stats.FetchTime, nil)

	logger.Info("fetched file",
		"name", file.Name,
		"version", file.Version,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.FetchTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	hooks.OnAnalyzeStart(ctx, label, result.Stats.NodeCount)
	result.Groups = analysis.DetectComposites(file.Document, t)
	result.AssetPlan = assets.Build(file.Document, result.Groups, t)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.CompositeCount = len(result.Groups)
	hooks.OnAnalyzeComplete(ctx, label, result.Stats.AnalyzeTime, nil)

	logger.Info("analyzed document",
		"composites", len(result.Groups),
		"assets", len(result.AssetPlan.Items),
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Artifacts)
	for _, name := range opts.Artifacts {
		data, err := renderArtifact(name, file, result.Groups, opts, t)
		if err != nil {
			result.Stats.RenderTime = time.Since(renderStart)
			hooks.OnRenderComplete(ctx, opts.Artifacts, result.Stats.RenderTime, err)
			return nil, err
		}
		result.Artifacts[name] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Artifacts, result.Stats.RenderTime, nil)

	logger.Info("rendered artifacts",
		"artifacts", opts.Artifacts,
		"duration", result.Stats.RenderTime)

	if opts.API != nil {
		result.Stats.Requests = opts.API.Stats()
	}
	return result, nil
}

// Fetch retrieves the document for the given options without running the
// rest of the pipeline. The tree command uses this directly.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*figma.FileResponse, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, err
	}
	file, _, err := r.fetch(ctx, &opts)
	return file, err
}

// fetch resolves the ref and retrieves the document, preferring a preloaded
// file. The second return is the log/hook label for the source.
func (r *Runner) fetch(ctx context.Context, opts *Options) (*figma.FileResponse, string, error) {
	hooks := observability.Compile()
	if opts.File != nil {
		hooks.OnFetchStart(ctx, opts.Ref)
		return opts.File, opts.Ref, nil
	}

	ref, err := figma.ParseRef(opts.Ref)
	if err != nil {
		return nil, opts.Ref, err
	}
	hooks.OnFetchStart(ctx, ref.FileKey)

	ids := ref.NodeIDs
	if opts.FrameID != "" {
		ids = []string{opts.FrameID}
	}
	if len(ids) == 0 {
		file, err := opts.API.File(ctx, ref.FileKey)
		return file, ref.FileKey, err
	}

	if len(ids) > 1 {
		r.Logger.Warn("multiple node ids in ref, compiling the first", "ids", ids)
		ids = ids[:1]
	}
	resp, err := opts.API.Nodes(ctx, ref.FileKey, ids)
	if err != nil {
		return nil, ref.FileKey, err
	}
	data := resp.Nodes[ids[0]]
	if data == nil || data.Document == nil {
		return nil, ref.FileKey, errors.New(errors.ErrCodeNotFound,
			"node %s not found in file %s", ids[0], ref.FileKey).
			WithRemediation("check the node id, or drop it to compile the whole file")
	}

	// A subtree compile gets a synthetic file whose document is the target
	// node, so the formatters see the same shape either way.
	return &figma.FileResponse{
		Name:         resp.Name,
		LastModified: resp.LastModified,
		Version:      resp.Version,
		Document:     data.Document,
		Components:   data.Components,
		Styles:       data.Styles,
	}, ref.FileKey, nil
}

// renderArtifact produces one named artifact.
func renderArtifact(name string, file *figma.FileResponse, groups []analysis.CompositeGroup, opts Options, t analysis.Thresholds) ([]byte, error) {
	switch name {
	case ArtifactSpec:
		return []byte(render.Spec(file, groups, t)), nil
	case ArtifactTokens:
		format, err := render.ParseTokenFormat(opts.TokenFormat)
		if err != nil {
			return nil, err
		}
		out, err := render.CollectTokens(file).Format(format)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case ArtifactContent:
		out, err := render.Content(file, t)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case ArtifactPlan:
		return []byte(render.Plan(file, groups, t)), nil
	case ArtifactTree:
		dot := render.TreeDOT(file.Document, render.TreeOptions{
			Detailed: opts.TreeDetailed,
			MaxDepth: opts.TreeDepth,
		})
		return []byte(dot), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidMode, "unknown artifact %q", name)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func countNodes(n *figma.Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += countNodes(child)
	}
	return count
}
