package analysis

import (
	"strings"
	"testing"

	"github.com/matzehuels/framespec/pkg/figma"
)

func buildLandingPage() *figma.Node {
	heading := styledText("4:1", "Headline", "Design to code in minutes", 48, 700, box(200, 164, 800, 60))
	bodyCopy := styledText("4:2", "Body", "Paste a link, get a build plan.", 16, 400, box(200, 260, 600, 48))
	ctaText := styledText("5:2", "Text", "Get Started", 16, 600, box(220, 340, 120, 24))
	cta := frame("5:1", "Primary Button", box(200, 330, 160, 44), ctaText)
	icon := vectorNode("4:3", "arrow-right", box(340, 340, 24, 24))

	hero := frame("3:1", "Hero", box(0, 0, 1440, 800), heading, bodyCopy, cta, icon)
	hero.LayoutMode = "VERTICAL"
	hero.ItemSpacing = 24
	hero.PaddingTop, hero.PaddingRight, hero.PaddingBottom, hero.PaddingLeft = 64, 80, 64, 80
	hero.PrimaryAxisAlignItems = "CENTER"
	hero.CounterAxisAlignItems = "CENTER"
	hero.ClipsContent = true
	hero.CornerRadius = 16
	hero.Fills = []figma.Paint{
		{Type: figma.PaintSolid, Visible: false, Opacity: 1, Color: &figma.Color{A: 1}},
		{Type: figma.PaintImage, Visible: true, Opacity: 1, ImageRef: "ref-hero", ScaleMode: figma.ScaleFill},
	}
	hero.Strokes = []figma.Paint{solidPaint(0.9, 0.9, 0.9)}
	hero.StrokeWeight = 1
	hero.Effects = []figma.Effect{
		{Type: figma.EffectDropShadow, Visible: true, Radius: 24, Color: &figma.Color{A: 0.2}},
		{Type: figma.EffectLayerBlur, Visible: false, Radius: 4},
	}

	features := frame("3:2", "Features", box(0, 800, 1440, 500),
		frame("6:1", "Step 1", box(100, 900, 350, 300)),
		frame("6:2", "Step 2", box(545, 900, 350, 300)),
		frame("6:3", "Step 3", box(990, 900, 350, 300)),
	)

	blob := solidRect("7:1", "Blob Decoration", box(0, 1300, 600, 400))
	content := frame("7:2", "Community Content", box(100, 1350, 800, 300),
		textNode("7:3", "Count", "Join 10,000 developers", box(150, 1400, 300, 40)),
	)
	badge := frame("7:4", "Notification Badge", box(1380, 1320, 40, 40))
	badge.LayoutPositioning = "ABSOLUTE"
	community := frame("3:3", "Community", box(0, 1300, 1440, 400), blob, content, badge)

	landing := frame("2:1", "Landing", box(0, 0, 1440, 1700), hero, features, community)
	return canvas("1:1", "Page 1", landing)
}

func findSection(t *testing.T, sections []SectionSummary, name string) SectionSummary {
	t.Helper()
	for _, s := range sections {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no section named %q in %d sections", name, len(sections))
	return SectionSummary{}
}

func TestSummarizePageSections(t *testing.T) {
	sections := SummarizePage(buildLandingPage(), nil, DefaultThresholds())
	if len(sections) != 3 {
		t.Fatalf("SummarizePage returned %d sections, want 3", len(sections))
	}
	for i, want := range []string{"Hero", "Features", "Community"} {
		if sections[i].Name != want {
			t.Errorf("section %d = %q, want %q", i, sections[i].Name, want)
		}
	}
}

func TestSummarizeHeroSection(t *testing.T) {
	sections := SummarizePage(buildLandingPage(), nil, DefaultThresholds())
	hero := findSection(t, sections, "Hero")

	if hero.Width != 1440 || hero.Height != 800 {
		t.Errorf("size = %gx%g, want 1440x800", hero.Width, hero.Height)
	}

	l := hero.Layout
	if l == nil {
		t.Fatal("Layout = nil for an auto-layout frame")
	}
	if l.Inferred {
		t.Error("explicit auto-layout reported as inferred")
	}
	if l.Direction != DirectionColumn || l.Gap != 24 {
		t.Errorf("layout = %s gap %g, want column gap 24", l.Direction, l.Gap)
	}
	if l.PadTop != 64 || l.PadRight != 80 || l.PadBottom != 64 || l.PadLeft != 80 {
		t.Errorf("padding = %g/%g/%g/%g, want 64/80/64/80", l.PadTop, l.PadRight, l.PadBottom, l.PadLeft)
	}
	if l.MainAlign != "center" || l.CrossAlign != "center" {
		t.Errorf("align = %q/%q, want center/center", l.MainAlign, l.CrossAlign)
	}

	if hero.Background == nil || hero.Background.Type != figma.PaintImage {
		t.Errorf("Background = %+v, want the first visible paint (image)", hero.Background)
	}
	if hero.Overflow != "hidden" {
		t.Errorf("Overflow = %q, want hidden", hero.Overflow)
	}
	if hero.BorderRadius != 16 {
		t.Errorf("BorderRadius = %g, want 16", hero.BorderRadius)
	}
	if hero.Border == nil || hero.Border.Weight != 1 {
		t.Errorf("Border = %+v, want a 1px stroke", hero.Border)
	}
	if len(hero.Effects) != 1 || hero.Effects[0].Type != figma.EffectDropShadow {
		t.Errorf("Effects = %+v, want only the visible drop shadow", hero.Effects)
	}

	if len(hero.Images) != 1 {
		t.Fatalf("Images = %+v, want the hero background fill", hero.Images)
	}
	img := hero.Images[0]
	if img.Ref != "ref-hero" || !img.Background {
		t.Errorf("image = ref %q background %v, want ref-hero/true", img.Ref, img.Background)
	}

	if len(hero.Icons) != 1 || hero.Icons[0].Name != "arrow-right" {
		t.Errorf("Icons = %+v, want arrow-right", hero.Icons)
	}

	if hero.ChildCount != 4 {
		t.Errorf("ChildCount = %d, want 4", hero.ChildCount)
	}
	if hero.Sequence != nil {
		t.Errorf("Sequence = %+v, want nil", hero.Sequence)
	}
}

func TestSummarizeHeroTypography(t *testing.T) {
	sections := SummarizePage(buildLandingPage(), nil, DefaultThresholds())
	hero := findSection(t, sections, "Hero")

	if len(hero.Typography) != 3 {
		t.Fatalf("Typography has %d entries, want 3", len(hero.Typography))
	}
	if hero.Typography[0].Size != 48 || hero.Typography[0].Role != RoleHeading {
		t.Errorf("largest entry = %g (%s), want 48 (heading)", hero.Typography[0].Size, hero.Typography[0].Role)
	}
	if hero.Typography[2].Role != RoleCTA {
		t.Errorf("button text role = %s, want cta", hero.Typography[2].Role)
	}
}

func TestSummarizeFeaturesSection(t *testing.T) {
	sections := SummarizePage(buildLandingPage(), nil, DefaultThresholds())
	features := findSection(t, sections, "Features")

	l := features.Layout
	if l == nil || !l.Inferred {
		t.Fatalf("Layout = %+v, want an inferred layout", l)
	}
	if l.Direction != DirectionRow || l.Gap != 95 {
		t.Errorf("layout = %s gap %g, want row gap 95", l.Direction, l.Gap)
	}

	if features.Sequence == nil {
		t.Fatal("Sequence = nil, want numbered steps")
	}
	if len(features.Sequence.Labels) != 3 || features.Sequence.Labels[0] != "Step 1" {
		t.Errorf("Sequence.Labels = %v, want Step 1..3", features.Sequence.Labels)
	}
	if len(features.NotableComponents) != 0 {
		t.Errorf("NotableComponents = %+v, want none", features.NotableComponents)
	}
}

func TestSummarizeNotableComponents(t *testing.T) {
	sections := SummarizePage(buildLandingPage(), nil, DefaultThresholds())
	community := findSection(t, sections, "Community")

	if len(community.NotableComponents) != 3 {
		t.Fatalf("NotableComponents = %+v, want blob, content, and badge", community.NotableComponents)
	}

	byName := map[string]NotableComponent{}
	for _, nc := range community.NotableComponents {
		byName[nc.Name] = nc
	}

	blob, ok := byName["Blob Decoration"]
	if !ok || blob.Category != CategoryDecorative {
		t.Errorf("blob = %+v, want category decorative", blob)
	}
	if !blob.IsOverlapping {
		t.Error("blob not flagged as overlapping")
	}

	content := byName["Community Content"]
	if content.Category != CategoryOther || !content.IsOverlapping {
		t.Errorf("content = %+v, want category other and overlapping", content)
	}
	if len(content.TextContent) != 1 || content.TextContent[0] != "Join 10,000 developers" {
		t.Errorf("content text = %v", content.TextContent)
	}

	badge := byName["Notification Badge"]
	if badge.Category != CategoryIndicator {
		t.Errorf("badge category = %q, want indicator", badge.Category)
	}
	if badge.IsOverlapping {
		t.Error("badge flagged as overlapping")
	}
	if badge.PositionHint != "top: 20px; right: 20px" {
		t.Errorf("badge PositionHint = %q, want top: 20px; right: 20px", badge.PositionHint)
	}
}

func TestSummarizePageAttachesComposites(t *testing.T) {
	groups := []CompositeGroup{{NodeID: "3:1", Name: "Hero", Width: 1440, Height: 800}}
	sections := SummarizePage(buildLandingPage(), groups, DefaultThresholds())

	hero := findSection(t, sections, "Hero")
	if hero.CompositeImage == nil || hero.CompositeImage.NodeID != "3:1" {
		t.Errorf("CompositeImage = %+v, want the hero group", hero.CompositeImage)
	}
	features := findSection(t, sections, "Features")
	if features.CompositeImage != nil {
		t.Errorf("Features CompositeImage = %+v, want nil", features.CompositeImage)
	}
}

func TestSummarizeFlatArtboard(t *testing.T) {
	page := canvas("1:1", "Page 1",
		frame("2:1", "Poster", box(0, 0, 800, 1200),
			styledText("3:1", "Title", "Hello", 64, 800, box(100, 100, 600, 100)),
		),
	)

	sections := SummarizePage(page, nil, DefaultThresholds())
	if len(sections) != 1 {
		t.Fatalf("SummarizePage returned %d sections, want the artboard itself", len(sections))
	}
	if sections[0].NodeID != "2:1" || sections[0].ChildCount != 1 {
		t.Errorf("section = %s with %d children, want 2:1 with 1", sections[0].NodeID, sections[0].ChildCount)
	}
}

func TestSummarizeTypographyCap(t *testing.T) {
	section := frame("2:1", "Type Ramp", box(0, 0, 1000, 1000),
		styledText("3:1", "A", "Alpha", 64, 700, box(0, 0, 400, 80)),
		styledText("3:2", "B", "Beta", 40, 700, box(0, 100, 400, 60)),
		styledText("3:3", "C", "Gamma", 24, 500, box(0, 200, 400, 40)),
		styledText("3:4", "D", "Delta", 16, 400, box(0, 300, 400, 24)),
		styledText("3:5", "E", "Epsilon", 12, 400, box(0, 400, 400, 18)),
		// Duplicate treatment; must not count twice.
		styledText("3:6", "F", "Zeta", 16, 400, box(0, 500, 400, 24)),
	)
	page := canvas("1:1", "Page 1", frame("1:2", "Art", box(0, 0, 1000, 1000), section))

	sections := SummarizePage(page, nil, DefaultThresholds())
	ramp := findSection(t, sections, "Type Ramp")

	if len(ramp.Typography) != 4 {
		t.Fatalf("Typography has %d entries, want the cap of 4", len(ramp.Typography))
	}
	for i := 1; i < len(ramp.Typography); i++ {
		if ramp.Typography[i].Size > ramp.Typography[i-1].Size {
			t.Fatalf("Typography not sorted by size: %+v", ramp.Typography)
		}
	}
	if ramp.Typography[0].Size != 64 {
		t.Errorf("largest size = %g, want 64", ramp.Typography[0].Size)
	}
}

func TestLayoutForExplicitMapping(t *testing.T) {
	n := frame("1:1", "Toolbar", box(0, 0, 800, 80))
	n.LayoutMode = "HORIZONTAL"
	n.PrimaryAxisAlignItems = "SPACE_BETWEEN"
	n.CounterAxisAlignItems = "MAX"
	n.LayoutWrap = "WRAP"
	n.ItemSpacing = 12
	n.CounterAxisSpacing = 16

	l := LayoutFor(n, DefaultThresholds())
	if l == nil {
		t.Fatal("LayoutFor returned nil")
	}
	if l.Direction != DirectionRow || l.MainAlign != "space-between" || l.CrossAlign != "flex-end" {
		t.Errorf("layout = %s %q/%q, want row space-between/flex-end", l.Direction, l.MainAlign, l.CrossAlign)
	}
	if !l.Wrap || l.Gap != 12 || l.RowGap != 16 {
		t.Errorf("wrap/gaps = %v/%g/%g, want true/12/16", l.Wrap, l.Gap, l.RowGap)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("ab ", 20)
	got := truncate(long, 40)
	if len(got) > 43 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q, want a 40-char prefix with ellipsis", got)
	}
	if truncate("short", 40) != "short" {
		t.Errorf("truncate(short) = %q", truncate("short", 40))
	}
}
