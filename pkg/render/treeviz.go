package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// TreeOptions configures node-tree DOT rendering.
type TreeOptions struct {
	// Detailed adds node type and dimensions to each label. When false,
	// only the layer name is shown.
	Detailed bool

	// MaxDepth stops the walk below this depth. Zero means unlimited.
	MaxDepth int
}

// TreeDOT converts a node tree to Graphviz DOT format, one box per layer
// with parent-child edges. Hidden layers render dashed and grey. The result
// feeds [TreeSVG] or any external dot tool.
func TreeDOT(root *figma.Node, opts TreeOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	if root != nil {
		writeTreeNode(&buf, root, 0, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeTreeNode(buf *bytes.Buffer, n *figma.Node, depth int, opts TreeOptions) {
	fmt.Fprintf(buf, "  %q [%s];\n", n.ID, treeAttrs(n, opts.Detailed))

	if opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth {
		return
	}
	for _, child := range n.Children {
		writeTreeNode(buf, child, depth+1, opts)
		fmt.Fprintf(buf, "  %q -> %q;\n", n.ID, child.ID)
	}
}

func treeAttrs(n *figma.Node, detailed bool) string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	if detailed {
		b := n.Bounds()
		label += fmt.Sprintf("\n%s %s×%s", n.Type, fmtFloat(b.Width), fmtFloat(b.Height))
	}

	attrs := fmt.Sprintf("label=%q", label)
	if !n.Visible {
		attrs += ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
	} else if n.IsText() {
		attrs += ", fillcolor=lightyellow"
	}
	return attrs
}

// TreeSVG renders a DOT tree to SVG using Graphviz.
func TreeSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root SVG tag so the viewBox starts at the
// origin and the element carries explicit pixel dimensions.
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
