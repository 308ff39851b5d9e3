package analysis

import "github.com/matzehuels/framespec/pkg/figma"

// OverlapRatio returns the intersection area of a and b as a fraction of
// the smaller rectangle's area. Returns 0 when either rectangle is empty
// or the two do not intersect.
func OverlapRatio(a, b figma.Rectangle) float64 {
	smaller := a.Area()
	if other := b.Area(); other < smaller {
		smaller = other
	}
	if smaller == 0 {
		return 0
	}

	left := max(a.X, b.X)
	right := min(a.X+a.Width, b.X+b.Width)
	top := max(a.Y, b.Y)
	bottom := min(a.Y+a.Height, b.Y+b.Height)
	if right <= left || bottom <= top {
		return 0
	}
	return (right - left) * (bottom - top) / smaller
}

// Overlaps reports whether a and b intersect at all.
func Overlaps(a, b figma.Rectangle) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// relativeTo rebases child coordinates onto the parent's origin.
func relativeTo(child, parent figma.Rectangle) figma.Rectangle {
	return figma.Rectangle{
		X:      child.X - parent.X,
		Y:      child.Y - parent.Y,
		Width:  child.Width,
		Height: child.Height,
	}
}
