package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/framespec/pkg/figma"
)

// SectionLayout is a container's layout translated into CSS flex terms,
// either read from explicit auto-layout metadata or inferred from raw
// coordinates (Inferred set).
type SectionLayout struct {
	Direction  Direction `json:"direction"`
	Gap        float64   `json:"gap,omitempty"`
	RowGap     float64   `json:"row_gap,omitempty"`
	PadTop     float64   `json:"padding_top,omitempty"`
	PadRight   float64   `json:"padding_right,omitempty"`
	PadBottom  float64   `json:"padding_bottom,omitempty"`
	PadLeft    float64   `json:"padding_left,omitempty"`
	MainAlign  string    `json:"main_align,omitempty"`
	CrossAlign string    `json:"cross_align,omitempty"`
	Wrap       bool      `json:"wrap,omitempty"`
	Inferred   bool      `json:"inferred,omitempty"`
}

// ImageInfo is one image found in a section's subtree.
type ImageInfo struct {
	NodeID     string          `json:"node_id"`
	Name       string          `json:"name"`
	Ref        string          `json:"ref"`
	ScaleMode  string          `json:"scale_mode,omitempty"`
	Background bool            `json:"background,omitempty"`
	Bounds     figma.Rectangle `json:"bounds"`
	ImageClassification
}

// IconInfo is one icon-sized vector found in a section's subtree.
type IconInfo struct {
	NodeID string  `json:"node_id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TypographyInfo is one deduplicated type treatment used in a section.
type TypographyInfo struct {
	Family string       `json:"family"`
	Size   float64      `json:"size"`
	Weight float64      `json:"weight"`
	Sample string       `json:"sample,omitempty"`
	Role   SemanticRole `json:"role,omitempty"`
}

// BorderInfo is a section's first visible solid stroke.
type BorderInfo struct {
	Color  figma.Color `json:"color"`
	Weight float64     `json:"weight"`
}

// NotableComponent is a sub-region that needs explicit implementation
// guidance: overlapping or absolutely positioned elements, and anything
// recognizable as navigation, a sidebar, a footer, an indicator, or pure
// decoration.
type NotableComponent struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	RelX           float64  `json:"rel_x"`
	RelY           float64  `json:"rel_y"`
	Width          float64  `json:"width"`
	Height         float64  `json:"height"`
	TextContent    []string `json:"text_content,omitempty"`
	IsOverlapping  bool     `json:"is_overlapping,omitempty"`
	PositionHint   string   `json:"position_hint,omitempty"`
	ScrollBehavior string   `json:"scroll_behavior,omitempty"`
}

// Notable component categories.
const (
	CategoryIndicator  = "indicator"
	CategorySidebar    = "sidebar"
	CategoryNav        = "nav"
	CategoryFooter     = "footer"
	CategoryDecorative = "decorative"
	CategoryOther      = "other"
)

// SectionSummary digests one section of the primary frame into the facts
// an implementation plan needs.
type SectionSummary struct {
	NodeID            string             `json:"node_id"`
	Name              string             `json:"name"`
	Width             float64            `json:"width"`
	Height            float64            `json:"height"`
	Layout            *SectionLayout     `json:"layout,omitempty"`
	Background        *figma.Paint       `json:"background,omitempty"`
	Images            []ImageInfo        `json:"images,omitempty"`
	CompositeImage    *CompositeGroup    `json:"composite_image,omitempty"`
	Icons             []IconInfo         `json:"icons,omitempty"`
	Typography        []TypographyInfo   `json:"typography,omitempty"`
	BorderRadius      float64            `json:"border_radius,omitempty"`
	Overflow          string             `json:"overflow,omitempty"`
	ScrollBehavior    string             `json:"scroll_behavior,omitempty"`
	Effects           []figma.Effect     `json:"effects,omitempty"`
	Border            *BorderInfo        `json:"border,omitempty"`
	ChildCount        int                `json:"child_count"`
	NotableComponents []NotableComponent `json:"notable_components,omitempty"`
	Sequence          *SequentialPattern `json:"sequence,omitempty"`
}

// SummarizePage digests a page into per-section summaries. The primary
// frame's visible container children are the sections; an artboard without
// container children is summarized as a single section. Passing a frame
// instead of a page summarizes that frame directly.
func SummarizePage(page *figma.Node, groups []CompositeGroup, t Thresholds) []SectionSummary {
	if page == nil {
		return nil
	}
	primary := page
	if !isArtboard(page.Type) {
		primary = PrimaryFrame(page)
	}
	if primary == nil {
		return nil
	}
	byID := CompositesByNode(groups)

	var sections []*figma.Node
	for _, child := range primary.Children {
		if child.Visible && child.Type.IsContainer() {
			sections = append(sections, child)
		}
	}
	if len(sections) == 0 {
		sections = []*figma.Node{primary}
	}

	out := make([]SectionSummary, 0, len(sections))
	for _, s := range sections {
		out = append(out, summarizeNode(s, byID, t))
	}
	return out
}

func summarizeNode(node *figma.Node, composites map[string]*CompositeGroup, t Thresholds) SectionSummary {
	bounds := node.Bounds()
	s := SectionSummary{
		NodeID: node.ID,
		Name:   node.Name,
		Width:  bounds.Width,
		Height: bounds.Height,
		Layout: LayoutFor(node, t),
	}

	if composites != nil {
		s.CompositeImage = composites[node.ID]
	}

	s.Background = firstVisiblePaint(node.Fills)
	s.Border = borderOf(node)
	s.BorderRadius = cornerRadiusOf(node)
	if node.ClipsContent {
		s.Overflow = "hidden"
	}
	if node.ScrollBehavior != "" && node.ScrollBehavior != "SCROLLS" {
		s.ScrollBehavior = node.ScrollBehavior
	}
	for _, e := range node.Effects {
		if e.Visible {
			s.Effects = append(s.Effects, e)
		}
	}

	collectImagery(node, bounds.Area(), t, &s)
	s.Typography = collectTypography(node, t)
	s.Sequence = DetectSequence(node.Children, t.SequenceMinRun)

	for _, child := range node.Children {
		if child.Visible {
			s.ChildCount++
		}
	}
	s.NotableComponents = notableChildren(node, t)

	return s
}

// LayoutFor translates explicit auto-layout metadata to CSS terms, falling
// back to coordinate inference for free-form containers. Returns nil when
// neither yields anything useful.
func LayoutFor(node *figma.Node, t Thresholds) *SectionLayout {
	switch node.LayoutMode {
	case "HORIZONTAL", "VERTICAL":
		dir := DirectionRow
		if node.LayoutMode == "VERTICAL" {
			dir = DirectionColumn
		}
		return &SectionLayout{
			Direction:  dir,
			Gap:        node.ItemSpacing,
			RowGap:     node.CounterAxisSpacing,
			PadTop:     node.PaddingTop,
			PadRight:   node.PaddingRight,
			PadBottom:  node.PaddingBottom,
			PadLeft:    node.PaddingLeft,
			MainAlign:  cssAlign(node.PrimaryAxisAlignItems),
			CrossAlign: cssAlign(node.CounterAxisAlignItems),
			Wrap:       node.LayoutWrap == "WRAP",
		}
	}

	inferred := InferLayout(node, t)
	if inferred == nil {
		return nil
	}
	return &SectionLayout{
		Direction:  inferred.Direction,
		Gap:        inferred.Gap,
		PadTop:     inferred.PaddingTop,
		PadRight:   inferred.PaddingRight,
		PadBottom:  inferred.PaddingBottom,
		PadLeft:    inferred.PaddingLeft,
		MainAlign:  inferred.JustifyContent,
		CrossAlign: inferred.AlignItems,
		Inferred:   true,
	}
}

// cssAlign maps the API's axis-align vocabulary onto flexbox values.
func cssAlign(v string) string {
	switch v {
	case "MIN":
		return "flex-start"
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "SPACE_BETWEEN":
		return "space-between"
	case "BASELINE":
		return "baseline"
	}
	return ""
}

func firstVisiblePaint(paints []figma.Paint) *figma.Paint {
	for i := range paints {
		if paints[i].Visible {
			return &paints[i]
		}
	}
	return nil
}

func borderOf(node *figma.Node) *BorderInfo {
	for _, stroke := range node.Strokes {
		if stroke.Visible && stroke.Type == figma.PaintSolid && stroke.Color != nil {
			return &BorderInfo{Color: *stroke.Color, Weight: node.StrokeWeight}
		}
	}
	return nil
}

func cornerRadiusOf(node *figma.Node) float64 {
	radius := node.CornerRadius
	for _, r := range node.RectangleCornerRadii {
		radius = max(radius, r)
	}
	return radius
}

// collectImagery gathers image fills and icon-sized vectors across the
// visible subtree.
func collectImagery(node *figma.Node, sectionArea float64, t Thresholds, s *SectionSummary) {
	if !node.Visible {
		return
	}

	for _, fill := range node.Fills {
		if !fill.Visible || fill.Type != figma.PaintImage {
			continue
		}
		s.Images = append(s.Images, ImageInfo{
			NodeID:              node.ID,
			Name:                node.Name,
			Ref:                 fill.ImageRef,
			ScaleMode:           fill.ScaleMode,
			Background:          len(node.Children) > 0,
			Bounds:              node.Bounds(),
			ImageClassification: ClassifyImage(node, sectionArea, t),
		})
		break
	}

	if IsIcon(node, t) {
		b := node.Bounds()
		s.Icons = append(s.Icons, IconInfo{
			NodeID: node.ID,
			Name:   node.Name,
			Width:  b.Width,
			Height: b.Height,
		})
		return
	}

	for _, child := range node.Children {
		collectImagery(child, sectionArea, t, s)
	}
}

// IsIcon treats small standalone vectors as exportable icons.
func IsIcon(node *figma.Node, t Thresholds) bool {
	switch node.Type {
	case figma.NodeVector, figma.NodeBooleanOperation:
	default:
		return false
	}
	b := node.Bounds()
	return b.Width > 0 && b.Width <= t.IconMaxSize && b.Height > 0 && b.Height <= t.IconMaxSize
}

// collectTypography gathers distinct type treatments, largest first,
// capped at TypographyMax entries.
func collectTypography(section *figma.Node, t Thresholds) []TypographyInfo {
	seen := map[string]bool{}
	var out []TypographyInfo

	var walk func(n *figma.Node)
	walk = func(n *figma.Node) {
		if !n.Visible {
			return
		}
		if n.IsText() && n.Style != nil {
			key := fmt.Sprintf("%s|%g|%g", n.Style.FontFamily, n.Style.FontSize, n.Style.FontWeight)
			if !seen[key] {
				seen[key] = true
				out = append(out, TypographyInfo{
					Family: n.Style.FontFamily,
					Size:   n.Style.FontSize,
					Weight: n.Style.FontWeight,
					Sample: truncate(n.Characters, 40),
					Role:   ClassifyTextRole(n, section.Name, nil, t),
				})
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(section)

	// Insertion order is document order; size order reads better in a plan.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Size > out[j-1].Size; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > t.TypographyMax {
		out = out[:t.TypographyMax]
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}

var notableCategories = []struct {
	keyword  string
	category string
}{
	{"sidebar", CategorySidebar},
	{"side bar", CategorySidebar},
	{"drawer", CategorySidebar},
	{"navbar", CategoryNav},
	{"nav", CategoryNav},
	{"menu", CategoryNav},
	{"footer", CategoryFooter},
	{"badge", CategoryIndicator},
	{"indicator", CategoryIndicator},
	{"status", CategoryIndicator},
	{"notification", CategoryIndicator},
	{"dot", CategoryIndicator},
	{"decoration", CategoryDecorative},
	{"ornament", CategoryDecorative},
	{"blob", CategoryDecorative},
	{"wave", CategoryDecorative},
	{"pattern", CategoryDecorative},
}

// notableChildren flags direct children that need explicit guidance:
// recognizable fixtures by name, or anything overlapping or absolutely
// positioned, which CSS will not reproduce without being told.
func notableChildren(section *figma.Node, t Thresholds) []NotableComponent {
	bounds := section.Bounds()

	var visible []*figma.Node
	for _, child := range section.Children {
		if child.Visible {
			visible = append(visible, child)
		}
	}

	var out []NotableComponent
	for i, child := range visible {
		category, named := categoryFor(child.Name)

		overlapping := false
		for j, other := range visible {
			if i != j && Overlaps(child.Bounds(), other.Bounds()) {
				overlapping = true
				break
			}
		}
		absolute := child.LayoutPositioning == "ABSOLUTE"

		if !named && !overlapping && !absolute {
			continue
		}
		if !named {
			category = CategoryOther
		}

		rel := relativeTo(child.Bounds(), bounds)
		nc := NotableComponent{
			Name:          child.Name,
			Category:      category,
			RelX:          rel.X,
			RelY:          rel.Y,
			Width:         rel.Width,
			Height:        rel.Height,
			TextContent:   textStrings(child),
			IsOverlapping: overlapping,
			PositionHint:  positionHint(rel, bounds),
		}
		if child.ScrollBehavior != "" && child.ScrollBehavior != "SCROLLS" {
			nc.ScrollBehavior = child.ScrollBehavior
		}
		out = append(out, nc)
	}
	return out
}

func categoryFor(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, nc := range notableCategories {
		if strings.Contains(lower, nc.keyword) {
			return nc.category, true
		}
	}
	return "", false
}

// positionHint renders the child's anchoring as a CSS-edge string using the
// nearest vertical and horizontal edges, e.g. "top: 24px; right: 32px".
func positionHint(rel figma.Rectangle, parent figma.Rectangle) string {
	top := rel.Y
	bottom := parent.Height - (rel.Y + rel.Height)
	left := rel.X
	right := parent.Width - (rel.X + rel.Width)

	v := fmt.Sprintf("top: %dpx", roundPx(top))
	if bottom < top {
		v = fmt.Sprintf("bottom: %dpx", roundPx(bottom))
	}
	h := fmt.Sprintf("left: %dpx", roundPx(left))
	if right < left {
		h = fmt.Sprintf("right: %dpx", roundPx(right))
	}
	return v + "; " + h
}

func roundPx(v float64) int {
	return int(math.Round(v))
}

// textStrings collects the visible text content of a subtree in document
// order.
func textStrings(node *figma.Node) []string {
	var out []string
	var walk func(n *figma.Node)
	walk = func(n *figma.Node) {
		if !n.Visible {
			return
		}
		if n.IsText() && strings.TrimSpace(n.Characters) != "" {
			out = append(out, n.Characters)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return out
}
