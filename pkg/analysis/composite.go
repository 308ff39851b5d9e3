package analysis

import "github.com/matzehuels/framespec/pkg/figma"

// CompositeGroup marks a container whose overlapping children should be
// flattened into one rendered bitmap instead of reproduced as separate
// layered instructions. Layered hero backgrounds and photo collages are the
// typical cases.
//
// When the container also holds text, VisualChildIDs lists the visual-only
// children to render and HasTextOverlays is set: the render endpoint bakes
// everything visible into the exported bitmap, so text must be excluded
// from the render and emitted as ordinary instructions on top, or it would
// appear twice.
type CompositeGroup struct {
	NodeID          string   `json:"node_id"`
	Name            string   `json:"name"`
	Width           float64  `json:"width"`
	Height          float64  `json:"height"`
	VisualChildIDs  []string `json:"visual_child_ids,omitempty"`
	HasTextOverlays bool     `json:"has_text_overlays"`
}

// DetectComposites walks the tree once and returns every composite group,
// in depth-first encounter order.
//
// Containers under explicit auto-layout are never candidates themselves
// (overlap there is accidental), nor are the direct children of a page root
// (those are page sections, not layered backgrounds). A fully-visual
// composite ends the descent; a composite with text overlays keeps
// descending through its text children only.
func DetectComposites(root *figma.Node, t Thresholds) []CompositeGroup {
	if root == nil {
		return nil
	}
	d := &compositeDetector{t: t}
	d.walk(root, root.Type == figma.NodeCanvas)
	return d.groups
}

// CompositesByNode indexes detector output by container node ID.
func CompositesByNode(groups []CompositeGroup) map[string]*CompositeGroup {
	if len(groups) == 0 {
		return nil
	}
	byID := make(map[string]*CompositeGroup, len(groups))
	for i := range groups {
		byID[groups[i].NodeID] = &groups[i]
	}
	return byID
}

type compositeDetector struct {
	t      Thresholds
	groups []CompositeGroup
}

// walk visits node's children. isCanvas excludes them from candidacy when
// node is a page root: its direct children are page sections, and stacking
// among sections is layout, not a layered background.
func (d *compositeDetector) walk(node *figma.Node, isCanvas bool) {
	for _, child := range node.Children {
		if !child.Visible {
			continue
		}
		if !isCanvas && d.inspect(child) {
			continue
		}
		d.walk(child, child.Type == figma.NodeCanvas)
	}
}

// inspect evaluates one container as a composite candidate. It returns true
// when the subtree below node is fully handled and the caller must not
// descend further.
func (d *compositeDetector) inspect(node *figma.Node) bool {
	if !node.Type.IsContainer() || node.LayoutMode != "" {
		return false
	}
	if node.Type == figma.NodeDocument || node.Type == figma.NodeCanvas {
		return false
	}

	bounds := node.Bounds()
	if bounds.Width < d.t.CompositeMinWidth || bounds.Height < d.t.CompositeMinHeight {
		return false
	}

	var visible []*figma.Node
	for _, child := range node.Children {
		if child.Visible {
			visible = append(visible, child)
		}
	}
	if len(visible) < 2 {
		return false
	}

	// Text takes precedence: a child that contains any TEXT belongs to the
	// overlay partition even if it also carries visual content.
	var visual, text []*figma.Node
	for _, child := range visible {
		switch {
		case containsText(child):
			text = append(text, child)
		case hasVisualContent(child):
			visual = append(visual, child)
		}
	}
	if len(visual) < 2 || !anyPairOverlaps(visual, d.t.OverlapRatio) {
		return false
	}

	group := CompositeGroup{
		NodeID: node.ID,
		Name:   node.Name,
		Width:  bounds.Width,
		Height: bounds.Height,
	}

	if len(text) == 0 {
		// The whole container renders as one image; nothing below matters.
		d.groups = append(d.groups, group)
		return true
	}

	group.HasTextOverlays = true
	group.VisualChildIDs = make([]string, len(visual))
	for i, child := range visual {
		group.VisualChildIDs[i] = child.ID
	}
	d.groups = append(d.groups, group)

	// The visual layer is baked into the render; only the text children
	// still need walking so their content is emitted on top.
	for _, child := range text {
		if !d.inspect(child) {
			d.walk(child, false)
		}
	}
	return true
}

// anyPairOverlaps reports whether at least one pair of nodes overlaps by
// more than ratio of the smaller bounding box.
func anyPairOverlaps(nodes []*figma.Node, ratio float64) bool {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if OverlapRatio(nodes[i].Bounds(), nodes[j].Bounds()) > ratio {
				return true
			}
		}
	}
	return false
}

// containsText reports whether the visible subtree rooted at node holds a
// TEXT node.
func containsText(node *figma.Node) bool {
	if !node.Visible {
		return false
	}
	if node.IsText() {
		return true
	}
	for _, child := range node.Children {
		if containsText(child) {
			return true
		}
	}
	return false
}

// hasVisualContent reports whether the visible subtree rooted at node draws
// anything: an image, solid, or gradient fill, or a vector shape.
func hasVisualContent(node *figma.Node) bool {
	if !node.Visible {
		return false
	}
	if node.Type.IsShape() {
		return true
	}
	for _, fill := range node.Fills {
		if !fill.Visible {
			continue
		}
		switch {
		case fill.Type == figma.PaintImage, fill.Type == figma.PaintSolid, fill.Type.IsGradient():
			return true
		}
	}
	for _, child := range node.Children {
		if hasVisualContent(child) {
			return true
		}
	}
	return false
}
