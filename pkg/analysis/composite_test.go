package analysis

import (
	"testing"

	"github.com/matzehuels/framespec/pkg/figma"
)

func TestDetectCompositesFullyVisual(t *testing.T) {
	hero := frame("3:1", "Hero Art", box(100, 100, 800, 500),
		imageRect("3:2", "Backdrop", "ref-a", box(100, 100, 800, 500)),
		imageRect("3:3", "Photo", "ref-b", box(300, 200, 400, 300)),
		// A nested stack that would qualify on its own; the fully-visual
		// parent must swallow it.
		frame("3:4", "Inner Stack", box(200, 150, 300, 300),
			imageRect("3:5", "Layer 1", "ref-c", box(200, 150, 300, 300)),
			imageRect("3:6", "Layer 2", "ref-d", box(250, 200, 200, 200)),
		),
	)
	page := canvas("1:1", "Page 1",
		frame("2:1", "Landing", box(0, 0, 1440, 2000), hero),
	)

	groups := DetectComposites(page, DefaultThresholds())
	if len(groups) != 1 {
		t.Fatalf("DetectComposites returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.NodeID != "3:1" || g.Name != "Hero Art" {
		t.Errorf("group = %s (%s), want 3:1 (Hero Art)", g.NodeID, g.Name)
	}
	if g.Width != 800 || g.Height != 500 {
		t.Errorf("group size = %gx%g, want 800x500", g.Width, g.Height)
	}
	if g.HasTextOverlays || g.VisualChildIDs != nil {
		t.Errorf("fully visual group carries overlay data: %+v", g)
	}
}

func TestDetectCompositesTextOverlays(t *testing.T) {
	hero := frame("3:1", "Hero", box(0, 0, 1200, 600),
		imageRect("3:2", "Background", "ref-a", box(0, 0, 1200, 600)),
		solidRect("3:3", "Scrim", box(0, 0, 1200, 600)),
		frame("3:4", "Copy", box(100, 200, 600, 200),
			textNode("3:5", "Headline", "Ship faster", box(120, 220, 400, 60)),
		),
	)
	page := canvas("1:1", "Page 1",
		frame("2:1", "Landing", box(0, 0, 1440, 2000), hero),
	)

	groups := DetectComposites(page, DefaultThresholds())
	if len(groups) != 1 {
		t.Fatalf("DetectComposites returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	if !g.HasTextOverlays {
		t.Error("HasTextOverlays = false, want true")
	}
	if len(g.VisualChildIDs) != 2 || g.VisualChildIDs[0] != "3:2" || g.VisualChildIDs[1] != "3:3" {
		t.Errorf("VisualChildIDs = %v, want [3:2 3:3]", g.VisualChildIDs)
	}
}

func TestDetectCompositesRecursesIntoTextChildren(t *testing.T) {
	// The text-bearing child is itself a composite and must be found on the
	// second level of descent.
	card := frame("4:1", "Card", box(0, 100, 900, 400),
		textNode("4:2", "Label", "Our story", box(50, 150, 200, 40)),
		imageRect("4:3", "Photo A", "ref-c", box(300, 100, 400, 400)),
		imageRect("4:4", "Photo B", "ref-d", box(400, 150, 400, 300)),
	)
	hero := frame("3:1", "Hero", box(0, 0, 1200, 600),
		imageRect("3:2", "Background", "ref-a", box(0, 0, 1200, 600)),
		solidRect("3:3", "Scrim", box(0, 0, 1200, 600)),
		card,
	)
	page := canvas("1:1", "Page 1",
		frame("2:1", "Landing", box(0, 0, 1440, 2000), hero),
	)

	groups := DetectComposites(page, DefaultThresholds())
	if len(groups) != 2 {
		t.Fatalf("DetectComposites returned %d groups, want 2", len(groups))
	}
	if groups[0].NodeID != "3:1" || groups[1].NodeID != "4:1" {
		t.Errorf("group order = %s, %s, want 3:1, 4:1", groups[0].NodeID, groups[1].NodeID)
	}
	if !groups[1].HasTextOverlays {
		t.Error("nested card group should carry text overlays")
	}
}

func TestDetectCompositesSkipsAutoLayout(t *testing.T) {
	stack := frame("3:1", "Cards", box(0, 0, 600, 900),
		frame("3:2", "Photo Stack", box(0, 0, 600, 400),
			imageRect("3:3", "Front", "ref-a", box(0, 0, 600, 400)),
			imageRect("3:4", "Back", "ref-b", box(100, 50, 400, 300)),
		),
		imageRect("3:5", "Hero Image", "ref-c", box(0, 300, 600, 600)),
	)
	stack.LayoutMode = "VERTICAL"
	page := canvas("1:1", "Page 1",
		frame("2:1", "Landing", box(0, 0, 1440, 2000), stack),
	)

	groups := DetectComposites(page, DefaultThresholds())
	if len(groups) != 1 {
		t.Fatalf("DetectComposites returned %d groups, want 1", len(groups))
	}
	if groups[0].NodeID != "3:2" {
		t.Errorf("group = %s, want the free-form child 3:2", groups[0].NodeID)
	}
}

func TestDetectCompositesExemptsPageSections(t *testing.T) {
	// Overlap among a page root's direct children is section layout, not a
	// layered background.
	page := canvas("1:1", "Page 1",
		frame("2:1", "Screen A", box(0, 0, 1440, 900),
			imageRect("2:2", "Left", "ref-a", box(0, 0, 1440, 900)),
			imageRect("2:3", "Right", "ref-b", box(200, 100, 1000, 700)),
		),
	)

	// Screen A is a direct child of the page root; its leaf children cannot
	// form a group on their own.
	if groups := DetectComposites(page, DefaultThresholds()); groups != nil {
		t.Fatalf("DetectComposites = %v, want nil", groups)
	}
}

func TestDetectCompositesRejections(t *testing.T) {
	th := DefaultThresholds()

	build := func(inner *figma.Node) *figma.Node {
		return frame("2:1", "Landing", box(0, 0, 1440, 2000), inner)
	}

	t.Run("below minimum size", func(t *testing.T) {
		small := frame("3:1", "Thumb", box(0, 0, 199, 500),
			imageRect("3:2", "A", "ref-a", box(0, 0, 199, 500)),
			imageRect("3:3", "B", "ref-b", box(0, 100, 199, 300)),
		)
		if groups := DetectComposites(build(small), th); groups != nil {
			t.Errorf("undersized container produced groups: %v", groups)
		}
	})

	t.Run("one visual child", func(t *testing.T) {
		c := frame("3:1", "Banner", box(0, 0, 1200, 400),
			imageRect("3:2", "Photo", "ref-a", box(0, 0, 1200, 400)),
			hidden(imageRect("3:3", "Old Photo", "ref-b", box(0, 0, 1200, 400))),
			textNode("3:4", "Title", "Welcome", box(100, 100, 300, 50)),
		)
		if groups := DetectComposites(build(c), th); groups != nil {
			t.Errorf("single visual child produced groups: %v", groups)
		}
	})

	t.Run("overlap at or below ratio", func(t *testing.T) {
		// 60px of a 300px child: 20% of the smaller box.
		c := frame("3:1", "Pair", box(0, 0, 600, 300),
			imageRect("3:2", "A", "ref-a", box(0, 0, 300, 300)),
			imageRect("3:3", "B", "ref-b", box(240, 0, 300, 300)),
		)
		if groups := DetectComposites(build(c), th); groups != nil {
			t.Errorf("20%% overlap produced groups: %v", groups)
		}
	})

	t.Run("overlap above ratio", func(t *testing.T) {
		// 150px of a 300px child: half the smaller box.
		c := frame("3:1", "Pair", box(0, 0, 600, 300),
			imageRect("3:2", "A", "ref-a", box(0, 0, 300, 300)),
			imageRect("3:3", "B", "ref-b", box(150, 0, 300, 300)),
		)
		groups := DetectComposites(build(c), th)
		if len(groups) != 1 || groups[0].NodeID != "3:1" {
			t.Errorf("50%% overlap groups = %v, want one group for 3:1", groups)
		}
	})

	t.Run("text-bearing child is not visual", func(t *testing.T) {
		// The card holds an image, but its text pulls it into the overlay
		// partition, leaving only one visual child.
		c := frame("3:1", "Hero", box(0, 0, 1000, 500),
			imageRect("3:2", "Background", "ref-a", box(0, 0, 1000, 500)),
			group("3:3", "Caption Card", box(0, 0, 1000, 500),
				imageRect("3:4", "Inset", "ref-b", box(100, 100, 400, 300)),
				textNode("3:5", "Caption", "A caption", box(120, 120, 200, 40)),
			),
		)
		if groups := DetectComposites(build(c), th); groups != nil {
			t.Errorf("text-bearing child counted as visual: %v", groups)
		}
	})
}
