package analysis

import "github.com/matzehuels/framespec/pkg/figma"

// Tree builders for tests. Nodes start visible and opaque, matching the
// decoder defaults.

func box(x, y, w, h float64) *figma.Rectangle {
	return &figma.Rectangle{X: x, Y: y, Width: w, Height: h}
}

func node(id, name string, typ figma.NodeType, bounds *figma.Rectangle, children ...*figma.Node) *figma.Node {
	return &figma.Node{
		ID:                  id,
		Name:                name,
		Type:                typ,
		Visible:             true,
		Opacity:             1,
		AbsoluteBoundingBox: bounds,
		Children:            children,
	}
}

func frame(id, name string, bounds *figma.Rectangle, children ...*figma.Node) *figma.Node {
	return node(id, name, figma.NodeFrame, bounds, children...)
}

func group(id, name string, bounds *figma.Rectangle, children ...*figma.Node) *figma.Node {
	return node(id, name, figma.NodeGroup, bounds, children...)
}

func canvas(id, name string, children ...*figma.Node) *figma.Node {
	return node(id, name, figma.NodeCanvas, nil, children...)
}

func solidPaint(r, g, b float64) figma.Paint {
	return figma.Paint{
		Type:    figma.PaintSolid,
		Visible: true,
		Opacity: 1,
		Color:   &figma.Color{R: r, G: g, B: b, A: 1},
	}
}

func solidRect(id, name string, bounds *figma.Rectangle) *figma.Node {
	n := node(id, name, figma.NodeRectangle, bounds)
	n.Fills = []figma.Paint{solidPaint(0.2, 0.4, 0.6)}
	return n
}

func imageRect(id, name, ref string, bounds *figma.Rectangle) *figma.Node {
	n := node(id, name, figma.NodeRectangle, bounds)
	n.Fills = []figma.Paint{{
		Type:      figma.PaintImage,
		Visible:   true,
		Opacity:   1,
		ImageRef:  ref,
		ScaleMode: figma.ScaleFill,
	}}
	return n
}

func vectorNode(id, name string, bounds *figma.Rectangle) *figma.Node {
	return node(id, name, figma.NodeVector, bounds)
}

func textNode(id, name, chars string, bounds *figma.Rectangle) *figma.Node {
	n := node(id, name, figma.NodeText, bounds)
	n.Characters = chars
	return n
}

func styledText(id, name, chars string, size, weight float64, bounds *figma.Rectangle) *figma.Node {
	n := textNode(id, name, chars, bounds)
	n.Style = &figma.TypeStyle{FontFamily: "Inter", FontSize: size, FontWeight: weight}
	return n
}

func hidden(n *figma.Node) *figma.Node {
	n.Visible = false
	return n
}
