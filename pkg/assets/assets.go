// Package assets decides which binary assets a compiled design references
// and where they belong on disk. The compiler core only plans: it records
// node IDs, image refs, and destination paths, leaving the actual downloads
// to an optional [Downloader] pass so artifact generation stays offline-safe.
package assets

import (
	"fmt"
	"strings"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/figma"
)

// Kind classifies how an asset is obtained.
type Kind string

// Asset kinds. Image fills resolve through the file's image-URL table;
// every other kind needs the render endpoint.
const (
	KindImageFill  Kind = "image-fill"
	KindIcon       Kind = "icon"
	KindScreenshot Kind = "screenshot"
	KindComposite  Kind = "composite"
)

// Item is one asset referenced by the generated artifacts.
type Item struct {
	Kind Kind `json:"kind"`

	// NodeID is the node to export via the render endpoint. Empty for
	// image fills, which are fetched by ref instead.
	NodeID string `json:"node_id,omitempty"`

	// Ref is the image-fill reference. Empty for rendered kinds.
	Ref string `json:"ref,omitempty"`

	Name string `json:"name,omitempty"`

	// Path is the artifact-facing destination, e.g. "/images/icons/menu.svg".
	Path string `json:"path"`

	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Plan lists every asset one compiled file references, in the order the
// artifacts mention them.
type Plan struct {
	Items []Item `json:"items"`
}

// ByKind returns the plan's items of one kind, preserving order.
func (p *Plan) ByKind(k Kind) []Item {
	var out []Item
	for _, it := range p.Items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}

// RenderIDs returns the node IDs of one kind for a render-endpoint call.
func (p *Plan) RenderIDs(k Kind) []string {
	var ids []string
	for _, it := range p.Items {
		if it.Kind == k && it.NodeID != "" {
			ids = append(ids, it.NodeID)
		}
	}
	return ids
}

// Build walks a document and assembles the asset plan: one entry per
// distinct image fill, per icon-sized vector, per primary frame screenshot,
// and per composite group. Image fills dedupe by ref; all paths are unique,
// with numeric suffixes on name collisions.
func Build(doc *figma.Node, groups []analysis.CompositeGroup, t analysis.Thresholds) *Plan {
	b := &builder{
		t:     t,
		paths: NewPathSet(),
		refs:  map[string]bool{},
		nodes: map[string]*figma.Node{},
	}
	if doc == nil {
		return &Plan{}
	}
	index(doc, b.nodes)

	for _, frame := range primaryFrames(doc) {
		b.add(Item{
			Kind:   KindScreenshot,
			NodeID: frame.ID,
			Name:   frame.Name,
			Path:   b.paths.Claim("/images/screenshot-" + slugOr(frame.Name, frame.ID) + ".png"),
			Format: "png",
			Scale:  2,
		})
		b.walk(frame)
	}

	for _, g := range groups {
		b.composite(g)
	}

	return &Plan{Items: b.items}
}

type builder struct {
	t     analysis.Thresholds
	items []Item
	paths *PathSet
	refs  map[string]bool
	nodes map[string]*figma.Node
}

func (b *builder) add(it Item) {
	b.items = append(b.items, it)
}

func (b *builder) walk(node *figma.Node) {
	if !node.Visible {
		return
	}

	for _, fill := range node.Fills {
		if !fill.Visible || fill.Type != figma.PaintImage || fill.ImageRef == "" {
			continue
		}
		if b.refs[fill.ImageRef] {
			continue
		}
		b.refs[fill.ImageRef] = true
		b.add(Item{
			Kind:   KindImageFill,
			Ref:    fill.ImageRef,
			Name:   node.Name,
			Path:   ImagePath(fill.ImageRef),
			Format: "png",
		})
	}

	if analysis.IsIcon(node, b.t) {
		b.add(Item{
			Kind:   KindIcon,
			NodeID: node.ID,
			Name:   node.Name,
			Path:   b.paths.Claim("/images/icons/" + slugOr(node.Name, node.ID) + ".svg"),
			Format: "svg",
			Scale:  1,
		})
		return
	}

	for _, child := range node.Children {
		b.walk(child)
	}
}

// composite plans the bitmap exports for one group. A fully-visual group
// renders as its container in one image; a group with text overlays renders
// each visual child separately so the baked bitmaps exclude the text.
func (b *builder) composite(g analysis.CompositeGroup) {
	if !g.HasTextOverlays {
		b.add(Item{
			Kind:   KindComposite,
			NodeID: g.NodeID,
			Name:   g.Name,
			Path:   b.paths.Claim("/images/composite-" + slugOr(g.Name, g.NodeID) + ".png"),
			Format: "png",
			Scale:  2,
		})
		return
	}

	base := slugOr(g.Name, g.NodeID)
	for _, id := range g.VisualChildIDs {
		name := id
		if n, ok := b.nodes[id]; ok && n.Name != "" {
			name = n.Name
		}
		b.add(Item{
			Kind:   KindComposite,
			NodeID: id,
			Name:   name,
			Path:   b.paths.Claim("/images/composite-" + base + "-" + slugOr(name, id) + ".png"),
			Format: "png",
			Scale:  2,
		})
	}
}

// PathSet allocates unique artifact paths, suffixing the stem on collision.
type PathSet struct {
	used map[string]int
}

// NewPathSet returns an empty allocator.
func NewPathSet() *PathSet {
	return &PathSet{used: map[string]int{}}
}

// Claim reserves a path. The first caller gets it verbatim; collisions get
// a numeric suffix before the extension.
func (ps *PathSet) Claim(path string) string {
	n := ps.used[path]
	ps.used[path] = n + 1
	if n == 0 {
		return path
	}
	ext := ""
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path, ext = path[:i], path[i:]
	}
	return fmt.Sprintf("%s-%d%s", path, n+1, ext)
}

// ImagePath is the artifact-facing path for an image fill.
func ImagePath(ref string) string {
	return "/images/" + ref + ".png"
}

// Slug converts a layer or style name to a kebab-case stem. Separators
// (spaces, underscores, slashes) become dashes, everything else outside
// [a-z0-9-] is dropped after lowercasing, and dash runs collapse.
func Slug(name string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '_' || r == '/':
			out.WriteByte('-')
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			out.WriteRune(r)
		}
	}
	s := out.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func slugOr(name, id string) string {
	if s := Slug(name); s != "" {
		return s
	}
	if s := Slug(strings.ReplaceAll(id, ":", "-")); s != "" {
		return s
	}
	return "asset"
}

// index maps node IDs to nodes across the whole tree, hidden included.
func index(node *figma.Node, byID map[string]*figma.Node) {
	byID[node.ID] = node
	for _, child := range node.Children {
		index(child, byID)
	}
}

// primaryFrames returns the frame to compile for each visible page, or the
// root itself when it is not a full document.
func primaryFrames(doc *figma.Node) []*figma.Node {
	if doc.Type != figma.NodeDocument {
		if doc.Type == figma.NodeCanvas {
			if primary := analysis.PrimaryFrame(doc); primary != nil {
				return []*figma.Node{primary}
			}
			return nil
		}
		return []*figma.Node{doc}
	}

	var frames []*figma.Node
	for _, page := range analysis.Pages(doc) {
		if primary := analysis.PrimaryFrame(page); primary != nil {
			frames = append(frames, primary)
		}
	}
	return frames
}
