package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/figma"
)

func specFixture() (*figma.FileResponse, []analysis.CompositeGroup) {
	headline := mkText("4:1", "Headline", "Build faster", 48, 700, box(80, 64, 600, 56))
	cta := mkText("4:3", "Label", "Get Started", 16, 600, box(80, 160, 120, 24))
	button := mkNode("4:2", "Primary Button", figma.NodeFrame, box(80, 150, 180, 48), cta)

	hero := mkNode("3:1", "Hero", figma.NodeFrame, box(0, 0, 1440, 600), headline, button)
	hero.LayoutMode = "VERTICAL"
	hero.ItemSpacing = 24
	hero.Fills = []figma.Paint{imagePaint("ref-hero", figma.ScaleFill)}

	gallery := mkNode("3:2", "Gallery", figma.NodeFrame, box(0, 600, 1440, 500),
		func() *figma.Node {
			r := mkNode("5:1", "Photo Left", figma.NodeRectangle, box(100, 700, 600, 300))
			r.Fills = []figma.Paint{solid(0.5, 0.5, 0.5, 1)}
			return r
		}(),
		func() *figma.Node {
			r := mkNode("5:2", "Photo Right", figma.NodeRectangle, box(400, 750, 600, 300))
			r.Fills = []figma.Paint{solid(0.3, 0.3, 0.3, 1)}
			return r
		}(),
	)

	art := mkNode("6:1", "Art", figma.NodeRectangle, box(0, 1100, 1440, 400))
	art.Fills = []figma.Paint{solid(0.1, 0.1, 0.4, 1)}
	caption := mkText("6:2", "Caption", "Trusted by teams everywhere", 16, 400, box(400, 1200, 640, 24))
	banner := mkNode("3:3", "Banner", figma.NodeFrame, box(0, 1100, 1440, 400), art, caption)

	blob := mkNode("7:1", "Blob", figma.NodeRectangle, box(100, 1600, 600, 300))
	blob.Fills = []figma.Paint{solid(0.9, 0.4, 0.2, 1)}
	content := mkNode("7:2", "Community Content", figma.NodeFrame, box(150, 1650, 500, 200),
		mkText("7:3", "Join Line", "Join 10,000 developers", 20, 500, box(170, 1680, 300, 28)))
	community := mkNode("3:4", "Community", figma.NodeFrame, box(0, 1500, 1440, 500), blob, content)

	home := mkNode("2:1", "Home", figma.NodeFrame, box(0, 0, 1440, 2000), hero, gallery, banner, community)
	alt := mkNode("2:2", "Old Home", figma.NodeFrame, box(1600, 0, 800, 600))

	file := docWith(mkNode("1:1", "Landing", figma.NodeCanvas, nil, home, alt))

	groups := []analysis.CompositeGroup{
		{NodeID: "3:2", Name: "Gallery", Width: 1440, Height: 500},
		{NodeID: "3:3", Name: "Banner", Width: 1440, Height: 400,
			VisualChildIDs: []string{"6:1"}, HasTextOverlays: true},
	}
	return file, groups
}

func TestSpecStructure(t *testing.T) {
	file, groups := specFixture()
	out := Spec(file, groups, analysis.DefaultThresholds())

	for _, want := range []string{
		"# Design Specification: Test File\n",
		"File version 100.\n",
		"## Page: Landing\n",
		"Reference screenshot: `/images/screenshot-home.png`\n",
		"### Home (`FRAME`)\n",
		"#### Hero (`FRAME`)\n",
		"- Layout: column, gap 24px\n",
		"- Image fill (cover): `/images/ref-hero.png`\n",
		"##### Headline (`TEXT`)\n",
		"> Build faster\n",
		"- Font: Inter, 48px, weight 700\n",
		"> Get Started\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("spec missing %q", want)
		}
	}

	if strings.Contains(out, "Old Home") {
		t.Error("non-primary frame leaked into the spec")
	}
}

func TestSpecImageSnippet(t *testing.T) {
	file, groups := specFixture()
	out := Spec(file, groups, analysis.DefaultThresholds())

	snippet := "```css\nbackground-image: url('/images/ref-hero.png');\nbackground-size: cover;\nbackground-position: center;\n```"
	if !strings.Contains(out, snippet) {
		t.Errorf("spec missing background snippet:\n%s", out)
	}
}

func TestSpecCompositeStopsDescent(t *testing.T) {
	file, groups := specFixture()
	out := Spec(file, groups, analysis.DefaultThresholds())

	if !strings.Contains(out, "- Composite visual: implement this whole subtree as a single image, `/images/composite-gallery.png`") {
		t.Errorf("spec missing composite note:\n%s", out)
	}
	if strings.Contains(out, "Photo Left") || strings.Contains(out, "Photo Right") {
		t.Error("composite children should not get their own sections")
	}
}

func TestSpecCompositeKeepsTextOverlays(t *testing.T) {
	file, groups := specFixture()
	out := Spec(file, groups, analysis.DefaultThresholds())

	if !strings.Contains(out, "pre-rendered as `/images/composite-banner-art.png`") {
		t.Errorf("spec missing overlay composite note:\n%s", out)
	}
	if !strings.Contains(out, "Caption (`TEXT`)") {
		t.Error("text overlay lost its section")
	}
	if strings.Contains(out, "Art (`RECTANGLE`)") {
		t.Error("visual layer of an overlay composite got its own section")
	}
}

func TestSpecOverlapNote(t *testing.T) {
	file, groups := specFixture()
	out := Spec(file, groups, analysis.DefaultThresholds())

	if !strings.Contains(out, "> Z-order: siblings here overlap") {
		t.Errorf("spec missing z-order note:\n%s", out)
	}
	if !strings.Contains(out, `"Community Content" must stack above "Blob" (text above visual)`) {
		t.Errorf("spec missing text-above-visual annotation:\n%s", out)
	}
}

func TestSpecDeterministic(t *testing.T) {
	file, groups := specFixture()
	t1 := Spec(file, groups, analysis.DefaultThresholds())
	t2 := Spec(file, groups, analysis.DefaultThresholds())
	if t1 != t2 {
		t.Error("spec output changed between runs on identical input")
	}
}

func TestSpecSubtreeRoot(t *testing.T) {
	card := mkNode("2:1", "Card", figma.NodeFrame, box(0, 0, 400, 300),
		mkText("3:1", "Title", "Hello", 24, 600, box(20, 20, 200, 30)))
	file := &figma.FileResponse{Name: "Fragment", Document: card}

	out := Spec(file, nil, analysis.DefaultThresholds())
	if !strings.Contains(out, "### Card (`FRAME`)") {
		t.Errorf("subtree root missing:\n%s", out)
	}
	if !strings.Contains(out, "Reference screenshot: `/images/screenshot-card.png`") {
		t.Errorf("subtree screenshot note missing:\n%s", out)
	}
}
