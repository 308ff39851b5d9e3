package render

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

func styledFile() *figma.FileResponse {
	heading := mkText("4:1", "Title", "Build faster", 48, 700, box(0, 0, 600, 56))
	heading.Style.LineHeightPx = 56
	heading.Styles = map[string]string{"text": "s2"}

	button := mkNode("4:2", "Primary Button", figma.NodeFrame, box(0, 100, 200, 48))
	button.Fills = []figma.Paint{solid(0.2, 0.4, 1, 1)}
	button.Styles = map[string]string{"fill": "s1"}
	button.CornerRadius = 8

	card := mkNode("4:3", "Card", figma.NodeFrame, box(0, 200, 400, 300))
	card.Effects = []figma.Effect{{
		Type: figma.EffectDropShadow, Visible: true,
		Color:  &figma.Color{A: 0.25},
		Offset: &figma.Vector{Y: 4},
		Radius: 16,
	}}
	card.Styles = map[string]string{"effect": "s3"}
	card.CornerRadius = 16

	hero := mkNode("3:1", "Hero", figma.NodeFrame, box(0, 0, 1440, 900), heading, button, card)
	hero.LayoutMode = "VERTICAL"
	hero.ItemSpacing = 24
	hero.PaddingTop = 64
	hero.PaddingBottom = 64

	file := docWith(mkNode("1:1", "Page 1", figma.NodeCanvas, nil,
		mkNode("2:1", "Landing", figma.NodeFrame, box(0, 0, 1440, 2000), hero)))
	file.Styles = map[string]figma.Style{
		"s1": {Key: "k1", Name: "Primary/500", StyleType: "FILL"},
		"s2": {Key: "k2", Name: "Heading", StyleType: "TEXT"},
		"s3": {Key: "k3", Name: "Card Shadow", StyleType: "EFFECT"},
	}
	return file
}

func TestCollectTokens(t *testing.T) {
	ts := CollectTokens(styledFile())

	if len(ts.Colors) != 1 || ts.Colors[0].Name != "primary-500" || ts.Colors[0].Value != "#3366ff" {
		t.Errorf("colors = %+v", ts.Colors)
	}
	if len(ts.Typography) != 1 {
		t.Fatalf("typography = %+v", ts.Typography)
	}
	typo := ts.Typography[0]
	if typo.Name != "heading" || typo.Family != "Inter" || typo.Size != 48 || typo.Weight != 700 || typo.LineHeight != 56 {
		t.Errorf("typography = %+v", typo)
	}
	if len(ts.Shadows) != 1 || ts.Shadows[0].Name != "card-shadow" {
		t.Fatalf("shadows = %+v", ts.Shadows)
	}
	if ts.Shadows[0].Value != "0px 4px 16px 0px rgba(0, 0, 0, 0.25)" {
		t.Errorf("shadow value = %q", ts.Shadows[0].Value)
	}

	wantRadii := []Token{{Name: "radius-8", Value: "8px"}, {Name: "radius-16", Value: "16px"}}
	if len(ts.Radii) != 2 || ts.Radii[0] != wantRadii[0] || ts.Radii[1] != wantRadii[1] {
		t.Errorf("radii = %+v", ts.Radii)
	}
	wantSpacing := []Token{{Name: "spacing-24", Value: "24px"}, {Name: "spacing-64", Value: "64px"}}
	if len(ts.Spacing) != 2 || ts.Spacing[0] != wantSpacing[0] || ts.Spacing[1] != wantSpacing[1] {
		t.Errorf("spacing = %+v", ts.Spacing)
	}
}

func TestCollectTokensSkipsUnpublishedStyles(t *testing.T) {
	file := styledFile()
	file.Styles = nil

	ts := CollectTokens(file)
	if len(ts.Colors) != 0 || len(ts.Typography) != 0 || len(ts.Shadows) != 0 {
		t.Errorf("unnamed styles leaked into tokens: %+v", ts)
	}
	// Layout-derived values need no published names.
	if len(ts.Radii) != 2 || len(ts.Spacing) != 2 {
		t.Errorf("radii/spacing = %+v / %+v", ts.Radii, ts.Spacing)
	}
}

func TestTokenFormatCSS(t *testing.T) {
	out, err := CollectTokens(styledFile()).Format(FormatCSS)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	want := `:root {
  --color-primary-500: #3366ff;
  --font-heading-family: Inter;
  --font-heading-size: 48px;
  --font-heading-weight: 700;
  --font-heading-line-height: 56px;
  --shadow-card-shadow: 0px 4px 16px 0px rgba(0, 0, 0, 0.25);
  --radius-8: 8px;
  --radius-16: 16px;
  --spacing-24: 24px;
  --spacing-64: 64px;
}
`
	if out != want {
		t.Errorf("css output:\n%s\nwant:\n%s", out, want)
	}
}

func TestTokenFormatSCSS(t *testing.T) {
	out, err := CollectTokens(styledFile()).Format(FormatSCSS)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.HasPrefix(out, "$color-primary-500: #3366ff;\n") {
		t.Errorf("scss output starts with %q", strings.SplitN(out, "\n", 2)[0])
	}
	if strings.Contains(out, ":root") || strings.Contains(out, "--") {
		t.Errorf("scss output carries css scaffolding:\n%s", out)
	}
}

func TestTokenFormatJSON(t *testing.T) {
	out, err := CollectTokens(styledFile()).Format(FormatJSON)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	for _, want := range []string{
		`"primary-500": "#3366ff"`,
		`"radius-16": "16px"`,
		`"family": "Inter"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenFormatTailwind(t *testing.T) {
	out, err := CollectTokens(styledFile()).Format(FormatTailwind)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	for _, want := range []string{
		"module.exports = {",
		"'primary-500': '#3366ff',",
		"'heading': ['Inter', 'sans-serif'],",
		"borderRadius: {",
		"'8': '8px',",
		"'24': '24px',",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tailwind output missing %q:\n%s", want, out)
		}
	}
}

// Emitted --color-* properties must parse back to the same channel values,
// one 0-255 rounding step of slack.
func TestTokenColorRoundTrip(t *testing.T) {
	file := styledFile()
	out, err := CollectTokens(file).Format(FormatCSS)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	original := figma.Color{R: 0.2, G: 0.4, B: 1, A: 1}
	found := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--color-") {
			continue
		}
		value := strings.TrimSuffix(strings.SplitN(line, ": ", 2)[1], ";")
		parsed, err := ParseHexColor(value)
		if err != nil {
			t.Fatalf("re-parsing %q: %v", value, err)
		}
		const tol = 1.0 / 255
		if math.Abs(parsed.R-original.R) > tol || math.Abs(parsed.G-original.G) > tol || math.Abs(parsed.B-original.B) > tol {
			t.Errorf("round trip of %q lost precision: %+v", value, parsed)
		}
		found = true
	}
	if !found {
		t.Fatal("no --color-* lines in css output")
	}
}

func TestParseTokenFormat(t *testing.T) {
	if f, err := ParseTokenFormat("CSS"); err != nil || f != FormatCSS {
		t.Errorf("ParseTokenFormat(CSS) = %v, %v", f, err)
	}
	if f, err := ParseTokenFormat(" tailwind "); err != nil || f != FormatTailwind {
		t.Errorf("ParseTokenFormat(tailwind) = %v, %v", f, err)
	}
	_, err := ParseTokenFormat("yaml")
	if err == nil {
		t.Fatal("ParseTokenFormat(yaml) accepted")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v", err)
	}
}

func TestTokenSetEmpty(t *testing.T) {
	if !(&TokenSet{}).Empty() {
		t.Error("zero set should be empty")
	}
	if CollectTokens(styledFile()).Empty() {
		t.Error("styled file should produce tokens")
	}
}
