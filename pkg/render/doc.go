// Package render turns an analyzed design file into the four text artifacts
// a coding agent consumes.
//
// # Overview
//
// Each formatter walks the (possibly composite-annotated) node tree and
// emits deterministic text: byte-identical output for identical input, no
// timestamps, no generated IDs. The four artifacts are:
//
//   - [Spec]: a markdown design specification, one section per visible
//     node, with geometry, layout, paints, and typography phrased as CSS
//   - [TokenSet]: named color/typography/shadow/radius/spacing tokens,
//     serialized by [TokenSet.Format] as CSS custom properties, SCSS
//     variables, JSON, or a Tailwind theme-extend snippet
//   - [Content]: per-page JSON content trees with classified text roles,
//     aggregated navigation lists, and role statistics
//   - [Plan]: an ordered checkbox task list, one task per section, with
//     the universal rules (z-index stacking, critical imagery, sequence
//     order) stated once up front
//
// # Asset references
//
// Formatters resolve image, icon, screenshot, and composite paths through
// the same [assets.Build] plan the downloader executes, so every path the
// markdown mentions is a path that can exist on disk.
//
// # Tree visualization
//
// [TreeDOT] exports the raw node hierarchy as a Graphviz DOT digraph and
// [TreeSVG] renders it, as a debugging aid for threshold calibration:
//
//	dot := render.TreeDOT(file.Document, render.TreeOptions{Detailed: true})
//	svg, err := render.TreeSVG(dot)
//
// [assets.Build]: github.com/matzehuels/framespec/pkg/assets
package render
