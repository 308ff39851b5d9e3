package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/assets"
	"github.com/matzehuels/framespec/pkg/figma"
)

// Spec renders the markdown design specification: one section per visible
// node with its geometry, layout, paints, typography, and asset references
// phrased as CSS hints. Output is deterministic for a given file.
func Spec(file *figma.FileResponse, groups []analysis.CompositeGroup, t analysis.Thresholds) string {
	w := &specWriter{
		composites: analysis.CompositesByNode(groups),
		paths:      newPathLookup(assets.Build(file.Document, groups, t)),
		t:          t,
	}

	fmt.Fprintf(&w.b, "# Design Specification: %s\n\n", file.Name)
	if file.Version != "" {
		fmt.Fprintf(&w.b, "File version %s", file.Version)
		if file.LastModified != "" {
			fmt.Fprintf(&w.b, ", last modified %s", file.LastModified)
		}
		w.b.WriteString(".\n\n")
	}

	doc := file.Document
	switch {
	case doc == nil:
	case doc.Type == figma.NodeDocument:
		for _, page := range analysis.Pages(doc) {
			primary := analysis.PrimaryFrame(page)
			if primary == nil {
				continue
			}
			fmt.Fprintf(&w.b, "## Page: %s\n\n", page.Name)
			w.screenshotNote(primary)
			w.node(primary, 0)
		}
	case doc.Type == figma.NodeCanvas:
		if primary := analysis.PrimaryFrame(doc); primary != nil {
			fmt.Fprintf(&w.b, "## Page: %s\n\n", doc.Name)
			w.screenshotNote(primary)
			w.node(primary, 0)
		}
	default:
		w.screenshotNote(doc)
		w.node(doc, 0)
	}

	return w.b.String()
}

// pathLookup resolves asset paths from the plan so the markdown references
// exactly the files the downloader would write.
type pathLookup struct {
	byNode map[string]string
	byRef  map[string]string
}

func newPathLookup(plan *assets.Plan) *pathLookup {
	l := &pathLookup{byNode: map[string]string{}, byRef: map[string]string{}}
	for _, it := range plan.Items {
		if it.NodeID != "" {
			l.byNode[it.NodeID] = it.Path
		}
		if it.Ref != "" {
			l.byRef[it.Ref] = it.Path
		}
	}
	return l
}

func (l *pathLookup) node(id string) string {
	return l.byNode[id]
}

func (l *pathLookup) ref(ref string) string {
	if p, ok := l.byRef[ref]; ok {
		return p
	}
	return assets.ImagePath(ref)
}

type specWriter struct {
	b          strings.Builder
	composites map[string]*analysis.CompositeGroup
	paths      *pathLookup
	t          analysis.Thresholds
}

func (w *specWriter) screenshotNote(frame *figma.Node) {
	if path := w.paths.node(frame.ID); path != "" && strings.Contains(path, "screenshot") {
		fmt.Fprintf(&w.b, "Reference screenshot: `%s`\n\n", path)
	}
}

func (w *specWriter) node(n *figma.Node, depth int) {
	if !n.Visible {
		return
	}

	w.heading(n, depth)

	if n.IsText() {
		w.text(n)
		return
	}
	if analysis.IsIcon(n, w.t) {
		w.icon(n)
		return
	}

	w.bullets(n)
	w.imageSnippets(n)

	if g := w.composites[n.ID]; g != nil {
		w.composite(n, g, depth)
		return
	}

	w.overlapNote(n)
	for _, child := range n.Children {
		w.node(child, depth+1)
	}
}

func (w *specWriter) heading(n *figma.Node, depth int) {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	// Pages hold level 2, so nodes start at level 3 and bottom out in bold
	// text once markdown runs out of heading levels.
	level := 3 + depth
	if level > 6 {
		fmt.Fprintf(&w.b, "**%s** (`%s`)\n\n", name, n.Type)
		return
	}
	fmt.Fprintf(&w.b, "%s %s (`%s`)\n\n", strings.Repeat("#", level), name, n.Type)
}

// bullets emits the node's facts as a markdown list.
func (w *specWriter) bullets(n *figma.Node) {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	if b := n.Bounds(); b.Width > 0 || b.Height > 0 {
		add("Size: %s × %s, position (%s, %s)",
			fmtFloat(b.Width), fmtFloat(b.Height), fmtFloat(b.X), fmtFloat(b.Y))
	}

	w.layoutLines(n, add)

	background := false
	for _, p := range n.Fills {
		if !p.Visible {
			continue
		}
		switch {
		case p.Type == figma.PaintImage:
			add("Image fill (%s): `%s`", scaleWord(p.ScaleMode), w.paths.ref(p.ImageRef))
		default:
			if css := PaintCSS(p); css != "" {
				add("Background: %s", css)
				background = true
			}
		}
	}
	if !background && len(visibleFills(n)) == 0 && n.BackgroundColor != nil {
		add("Background: %s", CSSColor(*n.BackgroundColor))
	}

	if border := firstSolidStroke(n); border != nil {
		line := fmt.Sprintf("Border: %spx solid %s", fmtFloat(n.StrokeWeight), CSSColor(*border.Color))
		if align := strings.ToLower(n.StrokeAlign); align == "inside" || align == "outside" {
			line += " (" + align + ")"
		}
		add("%s", line)
	}

	if len(n.RectangleCornerRadii) == 4 {
		r := n.RectangleCornerRadii
		if r[0] != r[1] || r[1] != r[2] || r[2] != r[3] {
			add("Corner radius: %spx %spx %spx %spx",
				fmtFloat(r[0]), fmtFloat(r[1]), fmtFloat(r[2]), fmtFloat(r[3]))
		} else if r[0] > 0 {
			add("Corner radius: %spx", fmtFloat(r[0]))
		}
	} else if n.CornerRadius > 0 {
		add("Corner radius: %spx", fmtFloat(n.CornerRadius))
	}

	for _, e := range n.Effects {
		if !e.Visible {
			continue
		}
		if css := EffectCSS(e); css != "" {
			add("Effect: `%s`", css)
		}
	}

	if n.Opacity < 0.999 {
		add("Opacity: %s", fmtFloat(n.Opacity))
	}
	if n.ClipsContent {
		add("Overflow: hidden")
	}
	if n.ScrollBehavior != "" && n.ScrollBehavior != "SCROLLS" {
		add("Scroll behavior: %s", strings.ToLower(n.ScrollBehavior))
	}
	if n.Rotation != 0 {
		add("Rotation: %sdeg", fmtFloat(n.Rotation))
	}

	for _, l := range lines {
		w.b.WriteString("- " + l + "\n")
	}
	if len(lines) > 0 {
		w.b.WriteString("\n")
	}
}

func (w *specWriter) layoutLines(n *figma.Node, add func(string, ...any)) {
	layout := analysis.LayoutFor(n, w.t)
	if layout == nil {
		return
	}

	label := "Layout"
	if layout.Inferred {
		label = "Layout (inferred)"
	}
	switch layout.Direction {
	case analysis.DirectionAbsolute:
		add("%s: absolute, position children by their coordinates", label)
		return
	case analysis.DirectionRow:
		add("%s: row, gap %spx", label, fmtFloat(layout.Gap))
	case analysis.DirectionColumn:
		add("%s: column, gap %spx", label, fmtFloat(layout.Gap))
	}
	if layout.RowGap > 0 {
		add("Row gap: %spx", fmtFloat(layout.RowGap))
	}
	if layout.PadTop > 0 || layout.PadRight > 0 || layout.PadBottom > 0 || layout.PadLeft > 0 {
		add("Padding: %spx %spx %spx %spx",
			fmtFloat(layout.PadTop), fmtFloat(layout.PadRight),
			fmtFloat(layout.PadBottom), fmtFloat(layout.PadLeft))
	}
	if layout.MainAlign != "" {
		add("Justify content: %s", layout.MainAlign)
	}
	if layout.CrossAlign != "" {
		add("Align items: %s", layout.CrossAlign)
	}
	if layout.Wrap {
		add("Wrap: allowed")
	}
}

// text renders a TEXT node: quoted content, then typography facts.
func (w *specWriter) text(n *figma.Node) {
	if chars := strings.TrimSpace(n.Characters); chars != "" {
		quoted := strings.ReplaceAll(chars, "\n", "\n> ")
		fmt.Fprintf(&w.b, "> %s\n\n", quoted)
	}

	var lines []string
	if s := n.Style; s != nil {
		font := s.FontFamily
		if font == "" {
			font = "inherit"
		}
		line := fmt.Sprintf("Font: %s, %spx, weight %s", font, fmtFloat(s.FontSize), fmtFloat(s.FontWeight))
		if s.LineHeightPx > 0 {
			line += fmt.Sprintf(", line-height %spx", fmtFloat(s.LineHeightPx))
		}
		lines = append(lines, line)
		if s.LetterSpacing != 0 {
			lines = append(lines, fmt.Sprintf("Letter spacing: %spx", fmtFloat(s.LetterSpacing)))
		}
		if s.TextAlignHorizontal != "" && s.TextAlignHorizontal != "LEFT" {
			lines = append(lines, "Text align: "+strings.ToLower(s.TextAlignHorizontal))
		}
		if s.TextCase != "" {
			lines = append(lines, "Text case: "+strings.ToLower(s.TextCase))
		}
		if s.TextDecoration != "" {
			lines = append(lines, "Decoration: "+strings.ToLower(s.TextDecoration))
		}
		if s.Italic {
			lines = append(lines, "Style: italic")
		}
	}
	if color := firstPaintCSS(n.Fills); color != "" {
		lines = append(lines, "Color: "+color)
	}

	for _, l := range lines {
		w.b.WriteString("- " + l + "\n")
	}
	if len(lines) > 0 {
		w.b.WriteString("\n")
	}
}

func (w *specWriter) icon(n *figma.Node) {
	b := n.Bounds()
	fmt.Fprintf(&w.b, "- Size: %s × %s\n", fmtFloat(b.Width), fmtFloat(b.Height))
	if path := w.paths.node(n.ID); path != "" {
		fmt.Fprintf(&w.b, "- Icon export: `%s`\n", path)
	}
	w.b.WriteString("\n")
}

// imageSnippets emits ready-to-paste CSS for each visible image fill. A
// node with children is treated as carrying a background image; a childless
// node is the image element itself.
func (w *specWriter) imageSnippets(n *figma.Node) {
	background := len(n.Children) > 0
	for _, p := range n.Fills {
		if !p.Visible || p.Type != figma.PaintImage || p.ImageRef == "" {
			continue
		}
		lines := ImageCSS(p, w.paths.ref(p.ImageRef), background)
		w.b.WriteString("```css\n")
		for _, l := range lines {
			w.b.WriteString(l + "\n")
		}
		w.b.WriteString("```\n\n")
	}
}

// composite emits the implementation note for a detected composite group.
// Fully-visual groups collapse into one image and end the descent; groups
// with text overlays keep their text children live.
func (w *specWriter) composite(n *figma.Node, g *analysis.CompositeGroup, depth int) {
	if !g.HasTextOverlays {
		fmt.Fprintf(&w.b, "- Composite visual: implement this whole subtree as a single image, `%s`\n\n",
			w.paths.node(g.NodeID))
		return
	}

	var imagePaths []string
	for _, id := range g.VisualChildIDs {
		if p := w.paths.node(id); p != "" {
			imagePaths = append(imagePaths, "`"+p+"`")
		}
	}
	fmt.Fprintf(&w.b, "- Composite with text overlays: the visual layers ship pre-rendered as %s; build only the text elements on top\n\n",
		strings.Join(imagePaths, ", "))

	w.overlapNote(n)
	for _, child := range n.Children {
		if child.Visible && hasTextWithin(child) {
			w.node(child, depth+1)
		}
	}
}

// overlapNote warns about overlapping visible siblings. The canvas paints
// later layers on top; CSS will not reproduce that without explicit
// z-index, and text must always clear the visuals beneath it.
func (w *specWriter) overlapNote(n *figma.Node) {
	var pairs []string
	kids := visibleBoundedChildren(n)
	for i := 0; i < len(kids); i++ {
		for j := i + 1; j < len(kids); j++ {
			if !analysis.Overlaps(kids[i].Bounds(), kids[j].Bounds()) {
				continue
			}
			lower, upper := kids[i], kids[j]
			note := "later layer on top"
			if hasTextWithin(lower) && !hasTextWithin(upper) {
				lower, upper = upper, lower
				note = "text above visual"
			} else if hasTextWithin(upper) && !hasTextWithin(lower) {
				note = "text above visual"
			}
			pairs = append(pairs, fmt.Sprintf("\"%s\" must stack above \"%s\" (%s)", upper.Name, lower.Name, note))
		}
	}
	if len(pairs) == 0 {
		return
	}

	w.b.WriteString("> Z-order: siblings here overlap, and browsers do not stack by document order the way the canvas paints. Set explicit z-index:\n")
	for _, p := range pairs {
		w.b.WriteString("> - " + p + "\n")
	}
	w.b.WriteString("\n")
}

func visibleBoundedChildren(n *figma.Node) []*figma.Node {
	var kids []*figma.Node
	for _, c := range n.Children {
		if c.Visible && c.AbsoluteBoundingBox != nil {
			kids = append(kids, c)
		}
	}
	return kids
}

func visibleFills(n *figma.Node) []figma.Paint {
	var out []figma.Paint
	for _, p := range n.Fills {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

func firstSolidStroke(n *figma.Node) *figma.Paint {
	for i := range n.Strokes {
		p := &n.Strokes[i]
		if p.Visible && p.Type == figma.PaintSolid && p.Color != nil {
			return p
		}
	}
	return nil
}

// scaleWord names an image scale mode by its CSS sizing equivalent.
func scaleWord(mode string) string {
	switch mode {
	case figma.ScaleFit:
		return "contain"
	case figma.ScaleTile:
		return "tile"
	case figma.ScaleStretch:
		return "stretch"
	default:
		return "cover"
	}
}

// hasTextWithin reports whether a subtree contains any visible text.
func hasTextWithin(n *figma.Node) bool {
	if !n.Visible {
		return false
	}
	if n.IsText() && strings.TrimSpace(n.Characters) != "" {
		return true
	}
	for _, c := range n.Children {
		if hasTextWithin(c) {
			return true
		}
	}
	return false
}
