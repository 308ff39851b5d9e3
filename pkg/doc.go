// Package pkg provides the core libraries for Framespec design-file compilation.
//
// # Overview
//
// Framespec compiles Figma files and frames into deterministic text artifacts
// a coding agent can implement from. The pkg directory is organized into four
// main areas:
//
//  1. [figma] - REST API client, references, and document types
//  2. [analysis] - Heuristics over the node tree (composites, layout, text roles)
//  3. [render] - Artifact renderers (spec, tokens, content, plan, tree)
//  4. [pipeline] - Orchestration (fetch → analyze → render)
//
// # Architecture
//
// The typical data flow through Framespec:
//
//	Figma REST API / saved document
//	         ↓
//	    [figma] package (fetch + decode the node tree)
//	         ↓
//	    [analysis] package (composites, frames, typography, assets)
//	         ↓
//	    [render] package (markdown, tokens, DOT)
//	         ↓
//	    design-spec.md / design-tokens.* / content.md / implementation-plan.md
//
// # Quick Start
//
// Compile a file into the full artifact set:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/framespec/pkg/pipeline"
//	)
//
//	// 1. Create a runner (nil cache means no caching)
//	runner := pipeline.NewRunner(nil, nil, nil)
//
//	// 2. Build an API client for the runner's cache
//	api := runner.NewAPI(os.Getenv("FIGMA_TOKEN"), nil)
//
//	// 3. Execute the pipeline
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Ref:       "AbCdEf1234567890AbCdEf",
//	    API:       api,
//	    Artifacts: pipeline.AllArtifacts,
//	})
//
//	// 4. Write the artifacts
//	os.WriteFile("design-spec.md", result.Artifacts[pipeline.ArtifactSpec], 0o644)
//
// # Main Packages
//
// ## Domain Logic
//
// [figma] - REST API client with response caching, serial pacing, and budget
// tracking. Parses file keys and figma.com URLs into [figma.Ref] and decodes
// file, nodes, and image endpoints into the document types.
//
// [analysis] - Read-only heuristics over the node tree: composite detection
// (flatten decorative stacks into single bitmaps), frame classification,
// section splitting, text role inference, and sequence detection. All
// heuristics are tuned through [analysis.Thresholds].
//
// [assets] - Asset planning and downloading. Builds the image/icon manifest
// a compile references and mirrors the files into a local directory.
//
// ## Rendering
//
// [render] - Deterministic artifact renderers, one file per artifact:
//
//   - design-spec markdown (sections, layout, typography, colors)
//   - design tokens (CSS custom properties, SCSS, JSON, Tailwind)
//   - content inventory (headings, copy, labels by section)
//   - implementation plan (checkbox build order)
//   - node-tree DOT/SVG diagrams via Graphviz
//
// ## Infrastructure
//
// [pipeline] - Complete compile pipeline (fetch → analyze → render) used by
// CLI and server. Ensures both entry points produce identical artifacts.
//
// [cache] - Response cache with file, Redis, MongoDB, and null backends.
// Keys derive from request paths; scoped keyers prefix them per tenant.
//
// [io] - Saved-document import/export and artifact set writing with the
// conventional filenames.
//
// [errors] - Coded errors with user messages and remediation hints.
//
// [observability] - Pipeline stage hooks for progress reporting.
//
// # Common Workflows
//
// Compile a saved document offline:
//
//	file, _ := pkgio.ImportDocument("landing.json")
//	result, _ := runner.Execute(ctx, pipeline.Options{File: file})
//
// Tune the analysis heuristics:
//
//	t := analysis.DefaultThresholds()
//	t.CompositeMinWidth = 300
//	result, _ := runner.Execute(ctx, pipeline.Options{Ref: ref, API: api, Thresholds: &t})
//
// Download the referenced assets:
//
//	dl := assets.NewDownloader(assets.DownloadConfig{OutputDir: "./handoff"})
//	res, _ := dl.Run(ctx, api, fileKey, result.AssetPlan)
//
// Export the node hierarchy as a diagram:
//
//	dot := render.TreeDOT(result.File.Document, render.TreeOptions{Detailed: true})
//	svg, _ := render.TreeSVG(dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/analysis/...      # Specific package
//
// [figma]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/figma
// [analysis]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/analysis
// [assets]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/assets
// [render]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/framespec/pkg/observability
package pkg
