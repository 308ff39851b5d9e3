package analysis

import "github.com/matzehuels/framespec/pkg/figma"

// Pages returns the visible CANVAS children of a document root.
func Pages(doc *figma.Node) []*figma.Node {
	if doc == nil {
		return nil
	}
	var pages []*figma.Node
	for _, child := range doc.Children {
		if child.Visible && child.Type == figma.NodeCanvas {
			pages = append(pages, child)
		}
	}
	return pages
}

// PrimaryFrame selects the single frame to compile from a page root.
//
// Pages routinely carry alternate and duplicate artboards side by side; to
// avoid emitting the same screen twice, exactly one sibling wins: the frame
// with the largest bounding-box area, first one encountered on a tie.
func PrimaryFrame(page *figma.Node) *figma.Node {
	if page == nil {
		return nil
	}

	var best *figma.Node
	var bestArea float64
	for _, child := range page.Children {
		if !child.Visible || !isArtboard(child.Type) {
			continue
		}
		area := child.Bounds().Area()
		if best == nil || area > bestArea {
			best = child
			bestArea = area
		}
	}
	return best
}

// isArtboard reports whether a page-root child can act as a screen design.
// Components double as artboards in files organized around a design system.
func isArtboard(t figma.NodeType) bool {
	switch t {
	case figma.NodeFrame, figma.NodeComponent:
		return true
	}
	return false
}
