package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// HexColor formats a color as #rrggbb, ignoring alpha.
func HexColor(c figma.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// CSSColor formats a color as hex when fully opaque and rgba() otherwise.
func CSSColor(c figma.Color) string {
	if c.A >= 0.999 {
		return HexColor(c)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(c.R), channel(c.G), channel(c.B), fmtFloat(c.A))
}

// ParseHexColor parses a #rrggbb string back into a color with full alpha.
func ParseHexColor(s string) (figma.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return figma.Color{}, errors.New(errors.ErrCodeInvalidFormat, "hex color must be 6 digits, got %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return figma.Color{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse hex color %q", s)
	}
	return figma.Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, nil
}

// PaintCSS renders one paint as a CSS background value. Image paints need
// a path and are handled by [ImageCSS] instead; this returns "" for them.
func PaintCSS(p figma.Paint) string {
	switch {
	case p.Type == figma.PaintSolid && p.Color != nil:
		c := *p.Color
		if p.Opacity < 0.999 {
			c.A = p.Opacity * c.A
		}
		return CSSColor(c)
	case p.Type.IsGradient():
		return GradientCSS(p)
	}
	return ""
}

// GradientCSS renders a gradient paint as a CSS gradient function. Angular
// and diamond gradients approximate as conic and radial.
func GradientCSS(p figma.Paint) string {
	stops := make([]string, 0, len(p.GradientStops))
	for _, s := range p.GradientStops {
		stops = append(stops, fmt.Sprintf("%s %s%%", CSSColor(s.Color), fmtFloat(s.Position*100)))
	}
	list := strings.Join(stops, ", ")

	switch p.Type {
	case figma.PaintGradientRadial, figma.PaintGradientDiamond:
		return fmt.Sprintf("radial-gradient(circle, %s)", list)
	case figma.PaintGradientAngular:
		return fmt.Sprintf("conic-gradient(%s)", list)
	default:
		return fmt.Sprintf("linear-gradient(%sdeg, %s)", fmtFloat(gradientAngle(p)), list)
	}
}

// gradientAngle derives the CSS angle from the first two gradient handles.
// CSS measures from the bottom pointing up, the handles are in a y-down
// unit square.
func gradientAngle(p figma.Paint) float64 {
	if len(p.GradientHandlePositions) < 2 {
		return 180
	}
	a, b := p.GradientHandlePositions[0], p.GradientHandlePositions[1]
	rad := math.Atan2(b.X-a.X, a.Y-b.Y)
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return math.Round(deg)
}

// ShadowCSS renders a shadow effect as one box-shadow entry. Returns "" for
// blur effects, which have no box-shadow equivalent.
func ShadowCSS(e figma.Effect) string {
	if e.Type != figma.EffectDropShadow && e.Type != figma.EffectInnerShadow {
		return ""
	}
	var off figma.Vector
	if e.Offset != nil {
		off = *e.Offset
	}
	color := "rgba(0, 0, 0, 0.25)"
	if e.Color != nil {
		color = CSSColor(*e.Color)
	}
	css := fmt.Sprintf("%spx %spx %spx %spx %s",
		fmtFloat(off.X), fmtFloat(off.Y), fmtFloat(e.Radius), fmtFloat(e.Spread), color)
	if e.Type == figma.EffectInnerShadow {
		return "inset " + css
	}
	return css
}

// EffectCSS renders any effect as a CSS hint: box-shadow for shadows,
// filter/backdrop-filter for blurs.
func EffectCSS(e figma.Effect) string {
	switch e.Type {
	case figma.EffectDropShadow, figma.EffectInnerShadow:
		return "box-shadow: " + ShadowCSS(e) + ";"
	case figma.EffectLayerBlur:
		return fmt.Sprintf("filter: blur(%spx);", fmtFloat(e.Radius))
	case figma.EffectBackgroundBlur:
		return fmt.Sprintf("backdrop-filter: blur(%spx);", fmtFloat(e.Radius))
	}
	return ""
}

// ImageCSS renders the implementation hint for an image paint: background
// properties when the image sits behind other content, img/object-fit rules
// when it stands alone. The scale mode picks the sizing strategy.
func ImageCSS(p figma.Paint, path string, background bool) []string {
	if background {
		lines := []string{fmt.Sprintf("background-image: url('%s');", path)}
		switch p.ScaleMode {
		case figma.ScaleFit:
			lines = append(lines, "background-size: contain;", "background-repeat: no-repeat;", "background-position: center;")
		case figma.ScaleTile:
			lines = append(lines, "background-repeat: repeat;")
		case figma.ScaleStretch:
			lines = append(lines, "background-size: 100% 100%;")
		default:
			lines = append(lines, "background-size: cover;", "background-position: center;")
		}
		return lines
	}

	lines := []string{fmt.Sprintf("<img src=\"%s\">", path)}
	switch p.ScaleMode {
	case figma.ScaleFit:
		lines = append(lines, "object-fit: contain;")
	case figma.ScaleStretch:
		lines = append(lines, "object-fit: fill;")
	default:
		lines = append(lines, "object-fit: cover;")
	}
	return lines
}

// channel converts a 0-1 color channel to its 0-255 integer value.
func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 255))
}

// fmtFloat renders a number the way hand-written CSS would: no exponent,
// at most two decimals, no trailing zeros.
func fmtFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
