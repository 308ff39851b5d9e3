// Package pipeline provides the core compile pipeline for framespec.
//
// This package implements the complete fetch → analyze → render pipeline
// shared by the CLI and the HTTP server. Centralizing it ensures both entry
// points produce byte-identical artifacts for the same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Retrieve the document tree from the API, or load a saved one
//  2. Analyze: Detect composite visual groups and plan the asset exports
//  3. Render: Generate the requested artifacts (spec, tokens, content, plan, tree)
//
// Fetch can be run independently; analyze and render are cheap and pure, so
// Execute always runs them together.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	api := runner.NewAPI(token, logger)
//	opts := pipeline.Options{
//	    Ref:       "https://www.figma.com/design/abc123/Landing",
//	    Artifacts: []string{pipeline.ArtifactSpec, pipeline.ArtifactTokens},
//	    API:       api,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	spec := result.Artifacts[pipeline.ArtifactSpec]
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/assets"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
	"github.com/matzehuels/framespec/pkg/render"
)

// Artifact names accepted in Options.Artifacts and used as keys in
// Result.Artifacts.
const (
	ArtifactSpec    = "spec"
	ArtifactTokens  = "tokens"
	ArtifactContent = "content"
	ArtifactPlan    = "plan"
	ArtifactTree    = "tree"
)

// ValidArtifacts is the set of artifact names the pipeline can render.
var ValidArtifacts = map[string]bool{
	ArtifactSpec:    true,
	ArtifactTokens:  true,
	ArtifactContent: true,
	ArtifactPlan:    true,
	ArtifactTree:    true,
}

// AllArtifacts is the full compile set written by --all: everything a
// downstream coding agent consumes. The tree visualization is a debug aid
// and stays opt-in.
var AllArtifacts = []string{ArtifactSpec, ArtifactTokens, ArtifactContent, ArtifactPlan}

// ValidateArtifact checks that an artifact name is known.
func ValidateArtifact(name string) error {
	if !ValidArtifacts[name] {
		return errors.New(errors.ErrCodeInvalidMode,
			"invalid artifact: %q (must be one of: spec, tokens, content, plan, tree)", name)
	}
	return nil
}

// ValidateArtifacts checks that all artifact names are known.
func ValidateArtifacts(names []string) error {
	for _, n := range names {
		if err := ValidateArtifact(n); err != nil {
			return err
		}
	}
	return nil
}

// API is the slice of the design-file client the pipeline consumes. A
// *figma.Client satisfies it; tests substitute stubs.
type API interface {
	File(ctx context.Context, key string) (*figma.FileResponse, error)
	Nodes(ctx context.Context, key string, ids []string) (*figma.NodesResponse, error)
	Stats() figma.Stats
}

// Options contains all configuration for one compile run. The struct
// supports JSON serialization for API requests; runtime fields are excluded.
type Options struct {
	// Fetch options
	Ref     string `json:"ref"`                // file key or design URL
	FrameID string `json:"frame_id,omitempty"` // compile this node's subtree instead of the whole file

	// Analysis options. Nil means DefaultThresholds.
	Thresholds *analysis.Thresholds `json:"thresholds,omitempty"`

	// Render options
	Artifacts    []string `json:"artifacts,omitempty"`
	TokenFormat  string   `json:"token_format,omitempty"`
	TreeDetailed bool     `json:"tree_detailed,omitempty"`
	TreeDepth    int      `json:"tree_depth,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// API performs the network fetches. Required unless File is preloaded.
	API API `json:"-"`

	// File short-circuits the fetch stage with an already-loaded document,
	// e.g. one saved by a previous run. Ref then only labels the logs.
	File *figma.FileResponse `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// File is the fetched (or preloaded) document.
	File *figma.FileResponse

	// Groups are the detected composite visual groups.
	Groups []analysis.CompositeGroup

	// AssetPlan lists every asset the artifacts reference, with the local
	// paths they expect. Executing it is the caller's choice.
	AssetPlan *assets.Plan

	// Artifacts contains rendered outputs keyed by artifact name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	CompositeCount int
	FetchTime      time.Duration
	AnalyzeTime    time.Duration
	RenderTime     time.Duration

	// Requests counts how the run's API calls were satisfied: fresh cache
	// hits, stale fallbacks, network calls, and budget skips.
	Requests figma.Stats
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent: later calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the fetch stage.
func (o *Options) ValidateForFetch() error {
	if o.File == nil {
		if o.Ref == "" {
			return errors.New(errors.ErrCodeInvalidInput, "ref is required")
		}
		if o.API == nil {
			return errors.New(errors.ErrCodeInvalidInput, "no API client configured to fetch %q", o.Ref)
		}
	}
	o.setLoggerDefault()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Artifacts) == 0 {
		o.Artifacts = []string{ArtifactSpec}
	}
	if o.TokenFormat == "" {
		o.TokenFormat = string(render.FormatCSS)
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for the render stage.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateArtifacts(o.Artifacts); err != nil {
		return err
	}
	if _, err := render.ParseTokenFormat(o.TokenFormat); err != nil {
		return err
	}
	return nil
}

// ThresholdsOrDefault returns the configured thresholds, defaulted.
func (o *Options) ThresholdsOrDefault() analysis.Thresholds {
	if o.Thresholds != nil {
		return *o.Thresholds
	}
	return analysis.DefaultThresholds()
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
