package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/figma"
)

// Plan renders the ordered implementation plan: universal rules stated once
// up front, then one checkbox task per section of each page's primary frame.
func Plan(file *figma.FileResponse, groups []analysis.CompositeGroup, t analysis.Thresholds) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Implementation Plan: %s\n\n", file.Name)

	writeUniversalRules(&b)

	b.WriteString("## Tasks\n\n")
	b.WriteString("- [ ] **Set up the page scaffold**: global reset, design tokens, and font loading before any section work.\n")

	for _, page := range contentPages(file.Document) {
		for _, s := range analysis.SummarizePage(page, groups, t) {
			writeSectionTask(&b, s)
		}
	}

	b.WriteString("- [ ] **Verify against the reference screenshots**: compare every section with its `/images/screenshot-*.png` capture before calling it done.\n")
	return b.String()
}

// writeUniversalRules states the cross-cutting constraints once, so the
// per-section tasks stay short.
func writeUniversalRules(b *strings.Builder) {
	b.WriteString("## Before You Start\n\n")
	b.WriteString("These rules apply to every task below:\n\n")
	b.WriteString("- The design canvas paints later layers on top. Browsers do not: wherever elements overlap, set explicit z-index with text above visuals.\n")
	b.WriteString("- Images marked critical show people. Never hide them at any viewport size, and keep `object-position: top center` so faces stay in frame.\n")
	b.WriteString("- Numbered sequences keep their exact order and spacing. Do not reflow, reorder, or collapse them responsively.\n")
	b.WriteString("- Asset paths below follow the export conventions: `/images/<ref>.png` for photos, `/images/icons/<name>.svg` for icons, `/images/composite-<name>.png` for pre-rendered visual groups.\n")
	b.WriteString("\n")
}

func writeSectionTask(b *strings.Builder, s analysis.SectionSummary) {
	fmt.Fprintf(b, "- [ ] **Build the \"%s\" section** (%s × %s)\n",
		s.Name, fmtFloat(s.Width), fmtFloat(s.Height))

	sub := func(format string, args ...any) {
		fmt.Fprintf(b, "  - "+format+"\n", args...)
	}

	if l := s.Layout; l != nil {
		sub("Layout: %s", layoutSummary(l))
	}
	if s.Background != nil {
		if css := PaintCSS(*s.Background); css != "" {
			sub("Background: %s", css)
		} else if s.Background.Type == figma.PaintImage {
			sub("Background: image fill (%s)", strings.ToLower(s.Background.ScaleMode))
		}
	}
	if s.CompositeImage != nil {
		if s.CompositeImage.HasTextOverlays {
			sub("Composite: pre-rendered visual layers with live text on top (%d visual children)", len(s.CompositeImage.VisualChildIDs))
		} else {
			sub("Composite: implement \"%s\" as a single pre-rendered image", s.CompositeImage.Name)
		}
	}
	for _, img := range s.Images {
		line := fmt.Sprintf("Image: \"%s\"", img.Name)
		if img.Priority != "" {
			line += fmt.Sprintf(" [%s]", img.Priority)
		}
		if img.NeverHide {
			line += ", never hidden, object-position " + img.CropAnchor
		}
		if img.Background {
			line += ", as section background"
		}
		sub("%s", line)
	}
	if len(s.Icons) > 0 {
		names := make([]string, 0, len(s.Icons))
		for _, ic := range s.Icons {
			names = append(names, ic.Name)
		}
		sub("Icons: %s", strings.Join(names, ", "))
	}
	for _, ty := range s.Typography {
		line := fmt.Sprintf("Type: %s %s/%s", ty.Family, fmtFloat(ty.Size), fmtFloat(ty.Weight))
		if ty.Role != "" {
			line += fmt.Sprintf(" (%s)", ty.Role)
		}
		sub("%s", line)
	}
	if s.Border != nil {
		sub("Border: %spx solid %s", fmtFloat(s.Border.Weight), CSSColor(s.Border.Color))
	}
	if s.BorderRadius > 0 {
		sub("Corner radius: %spx", fmtFloat(s.BorderRadius))
	}
	for _, e := range s.Effects {
		if css := EffectCSS(e); css != "" {
			sub("Effect: `%s`", css)
		}
	}
	if s.Overflow != "" {
		sub("Overflow: %s", s.Overflow)
	}
	if s.ScrollBehavior != "" {
		sub("Scroll behavior: %s", strings.ToLower(s.ScrollBehavior))
	}
	for _, nc := range s.NotableComponents {
		line := fmt.Sprintf("Component: \"%s\" (%s)", nc.Name, nc.Category)
		if nc.PositionHint != "" {
			line += ", pinned " + nc.PositionHint
		}
		if nc.IsOverlapping {
			line += ", overlaps siblings; set z-index per the rules above"
		}
		sub("%s", line)
	}
	if seq := s.Sequence; seq != nil {
		sub("Sequence: %s in fixed order (%s)", seq.Kind, strings.Join(seq.Labels, ", "))
	}
	sub("%s", responsiveRule(s))
}

// layoutSummary compresses a section layout into one task line.
func layoutSummary(l *analysis.SectionLayout) string {
	if l.Direction == analysis.DirectionAbsolute {
		return "absolute positioning, place children by their recorded coordinates"
	}

	parts := []string{fmt.Sprintf("%s flex, gap %spx", l.Direction, fmtFloat(l.Gap))}
	if l.PadTop > 0 || l.PadRight > 0 || l.PadBottom > 0 || l.PadLeft > 0 {
		parts = append(parts, fmt.Sprintf("padding %spx %spx %spx %spx",
			fmtFloat(l.PadTop), fmtFloat(l.PadRight), fmtFloat(l.PadBottom), fmtFloat(l.PadLeft)))
	}
	if l.MainAlign != "" {
		parts = append(parts, "justify "+l.MainAlign)
	}
	if l.CrossAlign != "" {
		parts = append(parts, "align "+l.CrossAlign)
	}
	if l.Wrap {
		parts = append(parts, "wrap allowed")
	}
	if l.Inferred {
		parts = append(parts, "inferred from coordinates")
	}
	return strings.Join(parts, ", ")
}

// responsiveRule derives the section's responsive guidance from its layout
// and content.
func responsiveRule(s analysis.SectionSummary) string {
	if s.Sequence != nil {
		return "Responsive: stack on small screens but keep the sequence order and numbering intact"
	}
	for _, img := range s.Images {
		if img.NeverHide {
			return "Responsive: reflow freely, but the critical imagery stays visible at every breakpoint"
		}
	}
	if s.Layout != nil && s.Layout.Direction == analysis.DirectionRow {
		return "Responsive: collapse this row to a column below tablet width"
	}
	return "Responsive: single column on small screens, preserve vertical rhythm"
}

