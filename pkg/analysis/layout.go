package analysis

import (
	"sort"

	"github.com/matzehuels/framespec/pkg/figma"
)

// Direction is the primary axis of an inferred or explicit layout.
type Direction string

// Layout directions.
const (
	DirectionRow      Direction = "row"
	DirectionColumn   Direction = "column"
	DirectionAbsolute Direction = "absolute"
)

// InferredLayout is a flex-equivalent reading of a free-form container,
// derived purely from child coordinates. Absolute means no reliable flex
// mapping exists and raw coordinates should be emitted instead.
type InferredLayout struct {
	Direction Direction `json:"direction"`

	// Gap is the average spacing between adjacent children along the
	// primary axis, clamped to zero.
	Gap float64 `json:"gap,omitempty"`

	// Padding from the children's extent to the parent edges.
	PaddingTop    float64 `json:"padding_top,omitempty"`
	PaddingRight  float64 `json:"padding_right,omitempty"`
	PaddingBottom float64 `json:"padding_bottom,omitempty"`
	PaddingLeft   float64 `json:"padding_left,omitempty"`

	// JustifyContent is the inferred main-axis distribution. Empty means
	// the evidence was ambiguous and no hint should be emitted.
	JustifyContent string `json:"justify_content,omitempty"`

	// AlignItems is the inferred cross-axis alignment, possibly empty.
	AlignItems string `json:"align_items,omitempty"`
}

// InferLayout derives a flex-equivalent layout for a container without
// explicit auto-layout metadata. Returns nil when fewer than two visible
// children carry bounding boxes; callers with real auto-layout data should
// not be here at all.
//
// Classification: shared top edges within tolerance make a row, shared left
// edges make a column, anything else is absolute. The tolerance is
// min(AlignTolerancePx, AlignToleranceFrac * parent cross dimension), so
// tall parents do not let wildly misaligned children pass as a row.
func InferLayout(parent *figma.Node, t Thresholds) *InferredLayout {
	if parent == nil || parent.AbsoluteBoundingBox == nil {
		return nil
	}
	pb := *parent.AbsoluteBoundingBox

	var kids []figma.Rectangle
	for _, child := range parent.Children {
		if !child.Visible || child.AbsoluteBoundingBox == nil {
			continue
		}
		kids = append(kids, relativeTo(*child.AbsoluteBoundingBox, pb))
	}
	if len(kids) < 2 {
		return nil
	}

	rowTol := tolerance(t, pb.Height)
	colTol := tolerance(t, pb.Width)

	switch {
	case spread(kids, func(r figma.Rectangle) float64 { return r.Y }) <= rowTol:
		return alongAxis(kids, pb, rowTol, true)
	case spread(kids, func(r figma.Rectangle) float64 { return r.X }) <= colTol:
		return alongAxis(kids, pb, colTol, false)
	default:
		return &InferredLayout{Direction: DirectionAbsolute}
	}
}

func tolerance(t Thresholds, crossDim float64) float64 {
	return min(t.AlignTolerancePx, t.AlignToleranceFrac*crossDim)
}

// spread returns the range of an edge coordinate across children.
func spread(kids []figma.Rectangle, edge func(figma.Rectangle) float64) float64 {
	lo, hi := edge(kids[0]), edge(kids[0])
	for _, k := range kids[1:] {
		lo = min(lo, edge(k))
		hi = max(hi, edge(k))
	}
	return hi - lo
}

// alongAxis measures gaps, padding, and justification along the primary
// axis. Children arrive in render order and are resorted positionally.
func alongAxis(kids []figma.Rectangle, parent figma.Rectangle, tol float64, row bool) *InferredLayout {
	sorted := make([]figma.Rectangle, len(kids))
	copy(sorted, kids)

	start := func(r figma.Rectangle) float64 { return r.Y }
	extent := func(r figma.Rectangle) float64 { return r.Height }
	mainDim := parent.Height
	if row {
		start = func(r figma.Rectangle) float64 { return r.X }
		extent = func(r figma.Rectangle) float64 { return r.Width }
		mainDim = parent.Width
	}
	sort.SliceStable(sorted, func(i, j int) bool { return start(sorted[i]) < start(sorted[j]) })

	var gaps []float64
	var gapSum float64
	for i := 1; i < len(sorted); i++ {
		gap := start(sorted[i]) - (start(sorted[i-1]) + extent(sorted[i-1]))
		gaps = append(gaps, gap)
		gapSum += gap
	}
	avgGap := max(gapSum/float64(len(gaps)), 0)

	first, last := sorted[0], sorted[len(sorted)-1]
	leading := start(first)
	trailing := mainDim - (start(last) + extent(last))

	out := &InferredLayout{Gap: avgGap}
	if row {
		out.Direction = DirectionRow
		out.PaddingLeft = max(leading, 0)
		out.PaddingRight = max(trailing, 0)
		out.PaddingTop, out.PaddingBottom = crossPadding(sorted, parent.Height, false)
	} else {
		out.Direction = DirectionColumn
		out.PaddingTop = max(leading, 0)
		out.PaddingBottom = max(trailing, 0)
		out.PaddingLeft, out.PaddingRight = crossPadding(sorted, parent.Width, true)
	}

	out.JustifyContent = inferJustify(gaps, leading, trailing, tol)
	out.AlignItems = inferAlign(sorted, parent, tol, row)
	return out
}

// crossPadding returns the leading/trailing space on the cross axis.
func crossPadding(kids []figma.Rectangle, crossDim float64, horizontal bool) (lead, trail float64) {
	lo, hi := 0.0, 0.0
	for i, k := range kids {
		s, e := k.Y, k.Y+k.Height
		if horizontal {
			s, e = k.X, k.X+k.Width
		}
		if i == 0 || s < lo {
			lo = s
		}
		if i == 0 || e > hi {
			hi = e
		}
	}
	return max(lo, 0), max(crossDim-hi, 0)
}

// inferJustify reads the main-axis distribution from free space. Ambiguous
// evidence yields "" so the formatter omits the hint instead of guessing.
func inferJustify(gaps []float64, leading, trailing, tol float64) string {
	substantial := 2 * tol

	// space-between consumes the free space into equal gaps: nothing
	// leading, nothing trailing. Two children qualify with one large gap;
	// three or more must space evenly.
	if leading <= tol && trailing <= tol {
		if len(gaps) == 1 && gaps[0] > substantial {
			return "space-between"
		}
		if len(gaps) >= 2 && spreadOf(gaps) <= tol && gaps[0] > tol {
			return "space-between"
		}
	}

	switch {
	case absDiff(leading, trailing) <= tol && leading > tol:
		return "center"
	case leading <= tol && trailing > substantial:
		return "flex-start"
	case trailing <= tol && leading > substantial:
		return "flex-end"
	}
	return ""
}

// inferAlign reads the cross-axis alignment from child edges.
func inferAlign(kids []figma.Rectangle, parent figma.Rectangle, tol float64, row bool) string {
	crossStart := func(r figma.Rectangle) float64 { return r.Y }
	crossEnd := func(r figma.Rectangle) float64 { return r.Y + r.Height }
	crossDim := parent.Height
	if !row {
		crossStart = func(r figma.Rectangle) float64 { return r.X }
		crossEnd = func(r figma.Rectangle) float64 { return r.X + r.Width }
		crossDim = parent.Width
	}

	centered := true
	atStart := true
	atEnd := true
	for _, k := range kids {
		center := crossStart(k) + (crossEnd(k)-crossStart(k))/2
		if absDiff(center, crossDim/2) > tol {
			centered = false
		}
		if crossStart(k) > tol {
			atStart = false
		}
		if crossDim-crossEnd(k) > tol {
			atEnd = false
		}
	}
	switch {
	case atStart && atEnd:
		// Children fill the cross axis; stretch carries no signal worth a hint.
		return ""
	case centered:
		return "center"
	case atStart:
		return "flex-start"
	case atEnd:
		return "flex-end"
	}
	return ""
}

func spreadOf(vals []float64) float64 {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
