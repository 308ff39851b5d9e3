package render

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/assets"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// TokenFormat selects the serialization of a [TokenSet].
type TokenFormat string

// Token output formats.
const (
	FormatCSS      TokenFormat = "css"
	FormatSCSS     TokenFormat = "scss"
	FormatJSON     TokenFormat = "json"
	FormatTailwind TokenFormat = "tailwind"
)

// ParseTokenFormat validates a user-supplied format name.
func ParseTokenFormat(s string) (TokenFormat, error) {
	switch f := TokenFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSS, FormatSCSS, FormatJSON, FormatTailwind:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown token format %q (expected css, scss, json, or tailwind)", s)
	}
}

// Token is one named design value, already rendered as CSS.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TypographyToken is one named text style.
type TypographyToken struct {
	Name       string  `json:"name"`
	Family     string  `json:"family"`
	Size       float64 `json:"size"`
	Weight     float64 `json:"weight"`
	LineHeight float64 `json:"line_height,omitempty"`
}

// TokenSet is everything the token formatter extracted from one file,
// each group sorted by name so serialization is stable.
type TokenSet struct {
	Colors     []Token           `json:"colors,omitempty"`
	Typography []TypographyToken `json:"typography,omitempty"`
	Shadows    []Token           `json:"shadows,omitempty"`
	Radii      []Token           `json:"radii,omitempty"`
	Spacing    []Token           `json:"spacing,omitempty"`
}

// Empty reports whether nothing was extracted.
func (ts *TokenSet) Empty() bool {
	return len(ts.Colors) == 0 && len(ts.Typography) == 0 &&
		len(ts.Shadows) == 0 && len(ts.Radii) == 0 && len(ts.Spacing) == 0
}

// CollectTokens walks a file's style references and layout metadata into a
// token set. Colors, typography, and shadows come from the nodes that
// reference published styles; radii and spacing values are harvested from
// corner radii and auto-layout gaps and named by value.
func CollectTokens(file *figma.FileResponse) *TokenSet {
	c := &tokenCollector{
		styles:  file.Styles,
		colors:  map[string]string{},
		typo:    map[string]TypographyToken{},
		shadows: map[string]string{},
		radii:   map[float64]bool{},
		spacing: map[float64]bool{},
	}
	if file.Document != nil {
		c.walk(file.Document)
	}
	return c.finish()
}

type tokenCollector struct {
	styles  map[string]figma.Style
	colors  map[string]string
	typo    map[string]TypographyToken
	shadows map[string]string
	radii   map[float64]bool
	spacing map[float64]bool
}

func (c *tokenCollector) walk(node *figma.Node) {
	if !node.Visible {
		return
	}

	if name := c.styleName(node, "fill"); name != "" {
		if css := firstPaintCSS(node.Fills); css != "" {
			c.putColor(name, css)
		}
	}
	if name := c.styleName(node, "stroke"); name != "" {
		if css := firstPaintCSS(node.Strokes); css != "" {
			c.putColor(name, css)
		}
	}
	if name := c.styleName(node, "text"); name != "" && node.Style != nil {
		if _, seen := c.typo[name]; !seen {
			c.typo[name] = TypographyToken{
				Name:       name,
				Family:     node.Style.FontFamily,
				Size:       node.Style.FontSize,
				Weight:     node.Style.FontWeight,
				LineHeight: node.Style.LineHeightPx,
			}
		}
	}
	if name := c.styleName(node, "effect"); name != "" {
		if css := shadowList(node.Effects); css != "" {
			if _, seen := c.shadows[name]; !seen {
				c.shadows[name] = css
			}
		}
	}

	if node.CornerRadius > 0 {
		c.radii[node.CornerRadius] = true
	}
	for _, r := range node.RectangleCornerRadii {
		if r > 0 {
			c.radii[r] = true
		}
	}

	if node.LayoutMode != "" {
		for _, v := range []float64{
			node.ItemSpacing, node.CounterAxisSpacing,
			node.PaddingTop, node.PaddingRight, node.PaddingBottom, node.PaddingLeft,
		} {
			if v > 0 {
				c.spacing[v] = true
			}
		}
	}

	for _, child := range node.Children {
		c.walk(child)
	}
}

// styleName resolves a node's style reference of one kind to its published
// slugged name, or "" when the node has none.
func (c *tokenCollector) styleName(node *figma.Node, kind string) string {
	id, ok := node.Styles[kind]
	if !ok {
		return ""
	}
	style, ok := c.styles[id]
	if !ok {
		return ""
	}
	return assets.Slug(style.Name)
}

func (c *tokenCollector) putColor(name, css string) {
	if _, seen := c.colors[name]; !seen {
		c.colors[name] = css
	}
}

func (c *tokenCollector) finish() *TokenSet {
	ts := &TokenSet{}
	for _, name := range sortedKeys(c.colors) {
		ts.Colors = append(ts.Colors, Token{Name: name, Value: c.colors[name]})
	}
	for _, name := range sortedKeys(c.typo) {
		ts.Typography = append(ts.Typography, c.typo[name])
	}
	for _, name := range sortedKeys(c.shadows) {
		ts.Shadows = append(ts.Shadows, Token{Name: name, Value: c.shadows[name]})
	}
	for _, v := range sortedValues(c.radii) {
		ts.Radii = append(ts.Radii, Token{
			Name:  "radius-" + fmtFloat(v),
			Value: fmtFloat(v) + "px",
		})
	}
	for _, v := range sortedValues(c.spacing) {
		ts.Spacing = append(ts.Spacing, Token{
			Name:  "spacing-" + fmtFloat(v),
			Value: fmtFloat(v) + "px",
		})
	}
	return ts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValues(m map[float64]bool) []float64 {
	vals := make([]float64, 0, len(m))
	for v := range m {
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	return vals
}

// firstPaintCSS renders the first visible paint with a CSS equivalent.
func firstPaintCSS(paints []figma.Paint) string {
	for _, p := range paints {
		if !p.Visible {
			continue
		}
		if css := PaintCSS(p); css != "" {
			return css
		}
	}
	return ""
}

// shadowList joins a node's visible shadow effects into one box-shadow
// value, empty when there are none.
func shadowList(effects []figma.Effect) string {
	var parts []string
	for _, e := range effects {
		if !e.Visible {
			continue
		}
		if css := ShadowCSS(e); css != "" {
			parts = append(parts, css)
		}
	}
	return strings.Join(parts, ", ")
}

// Format serializes the token set in the requested format.
func (ts *TokenSet) Format(f TokenFormat) (string, error) {
	switch f {
	case FormatCSS:
		return ts.cssVars(":root {", "}", "  --", ";"), nil
	case FormatSCSS:
		return ts.cssVars("", "", "$", ";"), nil
	case FormatJSON:
		return ts.jsonDoc()
	case FormatTailwind:
		return ts.tailwind(), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown token format %q", f)
}

// cssVars renders the flat variable formats. CSS custom properties and SCSS
// variables differ only in scaffolding, so one writer covers both.
func (ts *TokenSet) cssVars(opening, closing, prefix, term string) string {
	var b strings.Builder
	if opening != "" {
		b.WriteString(opening + "\n")
	}

	write := func(name, value string) {
		fmt.Fprintf(&b, "%s%s: %s%s\n", prefix, name, value, term)
	}

	for _, t := range ts.Colors {
		write("color-"+t.Name, t.Value)
	}
	for _, t := range ts.Typography {
		if t.Family != "" {
			write("font-"+t.Name+"-family", quoteFamily(t.Family))
		}
		if t.Size > 0 {
			write("font-"+t.Name+"-size", fmtFloat(t.Size)+"px")
		}
		if t.Weight > 0 {
			write("font-"+t.Name+"-weight", fmtFloat(t.Weight))
		}
		if t.LineHeight > 0 {
			write("font-"+t.Name+"-line-height", fmtFloat(t.LineHeight)+"px")
		}
	}
	for _, t := range ts.Shadows {
		write("shadow-"+t.Name, t.Value)
	}
	for _, t := range ts.Radii {
		write(t.Name, t.Value)
	}
	for _, t := range ts.Spacing {
		write(t.Name, t.Value)
	}

	if closing != "" {
		b.WriteString(closing + "\n")
	}
	return b.String()
}

func (ts *TokenSet) jsonDoc() (string, error) {
	doc := map[string]any{}
	if len(ts.Colors) > 0 {
		doc["colors"] = tokenMap(ts.Colors)
	}
	if len(ts.Typography) > 0 {
		typo := map[string]any{}
		for _, t := range ts.Typography {
			typo[t.Name] = map[string]any{
				"family":     t.Family,
				"size":       t.Size,
				"weight":     t.Weight,
				"lineHeight": t.LineHeight,
			}
		}
		doc["typography"] = typo
	}
	if len(ts.Shadows) > 0 {
		doc["shadows"] = tokenMap(ts.Shadows)
	}
	if len(ts.Radii) > 0 {
		doc["radii"] = tokenMap(ts.Radii)
	}
	if len(ts.Spacing) > 0 {
		doc["spacing"] = tokenMap(ts.Spacing)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize tokens")
	}
	return string(out) + "\n", nil
}

func tokenMap(tokens []Token) map[string]string {
	m := make(map[string]string, len(tokens))
	for _, t := range tokens {
		m[t.Name] = t.Value
	}
	return m
}

// tailwind renders a theme-extend snippet ready to paste into
// tailwind.config.js.
func (ts *TokenSet) tailwind() string {
	var b strings.Builder
	b.WriteString("module.exports = {\n  theme: {\n    extend: {\n")

	group := func(key string, tokens []Token, strip string) {
		if len(tokens) == 0 {
			return
		}
		fmt.Fprintf(&b, "      %s: {\n", key)
		for _, t := range tokens {
			name := strings.TrimPrefix(t.Name, strip)
			fmt.Fprintf(&b, "        '%s': '%s',\n", name, t.Value)
		}
		b.WriteString("      },\n")
	}

	group("colors", ts.Colors, "")

	if len(ts.Typography) > 0 {
		b.WriteString("      fontFamily: {\n")
		for _, t := range ts.Typography {
			if t.Family != "" {
				fmt.Fprintf(&b, "        '%s': ['%s', 'sans-serif'],\n", t.Name, t.Family)
			}
		}
		b.WriteString("      },\n      fontSize: {\n")
		for _, t := range ts.Typography {
			if t.Size > 0 {
				fmt.Fprintf(&b, "        '%s': '%spx',\n", t.Name, fmtFloat(t.Size))
			}
		}
		b.WriteString("      },\n")
	}

	group("boxShadow", ts.Shadows, "")
	group("borderRadius", ts.Radii, "radius-")
	group("spacing", ts.Spacing, "spacing-")

	b.WriteString("    },\n  },\n}\n")
	return b.String()
}

// quoteFamily wraps multi-word font family names in quotes.
func quoteFamily(family string) string {
	if strings.ContainsRune(family, ' ') {
		return "'" + family + "'"
	}
	return family
}
