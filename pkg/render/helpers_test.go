package render

import (
	"github.com/matzehuels/framespec/pkg/figma"
)

func box(x, y, w, h float64) *figma.Rectangle {
	return &figma.Rectangle{X: x, Y: y, Width: w, Height: h}
}

func mkNode(id, name string, typ figma.NodeType, bounds *figma.Rectangle, children ...*figma.Node) *figma.Node {
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

func solid(r, g, b, a float64) figma.Paint {
	return figma.Paint{
		Type: figma.PaintSolid, Visible: true, Opacity: 1,
		Color: &figma.Color{R: r, G: g, B: b, A: a},
	}
}

func imagePaint(ref, mode string) figma.Paint {
	return figma.Paint{
		Type: figma.PaintImage, Visible: true, Opacity: 1,
		ImageRef: ref, ScaleMode: mode,
	}
}

func mkText(id, name, chars string, size, weight float64, bounds *figma.Rectangle) *figma.Node {
	n := mkNode(id, name, figma.NodeText, bounds)
	n.Characters = chars
	n.Style = &figma.TypeStyle{FontFamily: "Inter", FontSize: size, FontWeight: weight}
	return n
}

func docWith(pages ...*figma.Node) *figma.FileResponse {
	return &figma.FileResponse{
		Name:     "Test File",
		Version:  "100",
		Document: mkNode("0:0", "Document", figma.NodeDocument, nil, pages...),
	}
}
