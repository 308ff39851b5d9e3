package analysis

import (
	"strings"

	"github.com/matzehuels/framespec/pkg/figma"
)

// SemanticRole labels what a piece of text is for, not what it says.
type SemanticRole string

// Semantic roles, from strongest signals to the fallback.
const (
	RoleHeading     SemanticRole = "heading"
	RoleSubheading  SemanticRole = "subheading"
	RoleBody        SemanticRole = "body"
	RoleButton      SemanticRole = "button"
	RoleLabel       SemanticRole = "label"
	RoleLink        SemanticRole = "link"
	RoleCaption     SemanticRole = "caption"
	RolePlaceholder SemanticRole = "placeholder"
	RoleNavigation  SemanticRole = "navigation"
	RoleFooter      SemanticRole = "footer"
	RoleCTA         SemanticRole = "cta"
	RoleTitle       SemanticRole = "title"
	RoleDescription SemanticRole = "description"
	RoleUnknown     SemanticRole = "unknown"
)

// nameRoles maps layer-name keywords to roles. Order matters: more specific
// keywords come first so "subtitle" never reads as "title".
var nameRoles = []struct {
	keyword string
	role    SemanticRole
}{
	{"subheading", RoleSubheading},
	{"subtitle", RoleSubheading},
	{"tagline", RoleSubheading},
	{"heading", RoleHeading},
	{"headline", RoleHeading},
	{"title", RoleTitle},
	{"button", RoleButton},
	{"btn", RoleButton},
	{"cta", RoleCTA},
	{"placeholder", RolePlaceholder},
	{"label", RoleLabel},
	{"link", RoleLink},
	{"caption", RoleCaption},
	{"nav", RoleNavigation},
	{"menu", RoleNavigation},
	{"footer", RoleFooter},
	{"description", RoleDescription},
	{"paragraph", RoleBody},
	{"body", RoleBody},
}

// ctaPhrases promote short standalone text to a call-to-action.
var ctaPhrases = []string{"get started", "sign up"}

// ClassifyTextRole assigns a semantic role to a TEXT node.
//
// Signals are consulted in confidence order: the node's own name, the
// parent's name, then every ancestor name; failing those, typography size
// and weight; then the text content itself; finally a length split between
// body copy and label. The path walks nearest ancestor first.
func ClassifyTextRole(node *figma.Node, parentName string, path []string, t Thresholds) SemanticRole {
	if role, ok := roleFromName(node.Name); ok {
		return role
	}
	if role, ok := roleFromName(parentName); ok {
		return role
	}
	for i := len(path) - 1; i >= 0; i-- {
		if role, ok := roleFromName(path[i]); ok {
			return role
		}
	}

	if s := node.Style; s != nil {
		switch {
		case s.FontSize >= t.HeadingMinSize && s.FontWeight >= t.HeadingMinWeight:
			return RoleHeading
		case s.FontSize >= t.SubheadingMinSize && s.FontWeight >= t.SubheadingMinWeight:
			return RoleSubheading
		case s.FontSize > 0 && s.FontSize <= t.CaptionMaxSize:
			return RoleCaption
		}
	}

	content := strings.ToLower(strings.TrimSpace(node.Characters))
	if len(content) > 0 && len(content) <= 30 {
		for _, phrase := range ctaPhrases {
			if strings.Contains(content, phrase) {
				return RoleCTA
			}
		}
	}

	if len(node.Characters) > t.BodyMinLength {
		return RoleBody
	}
	return RoleLabel
}

func roleFromName(name string) (SemanticRole, bool) {
	lower := strings.ToLower(name)
	for _, nr := range nameRoles {
		if strings.Contains(lower, nr.keyword) {
			return nr.role, true
		}
	}
	return RoleUnknown, false
}

// ExtractedText is one TEXT node pulled out of the tree with everything the
// content report needs to place it.
type ExtractedText struct {
	ID          string           `json:"id"`
	Text        string           `json:"text"`
	Role        SemanticRole     `json:"role"`
	NodeName    string           `json:"node_name"`
	FramePath   []string         `json:"frame_path"`
	Style       *figma.TypeStyle `json:"style,omitempty"`
	Bounds      *figma.Rectangle `json:"bounds,omitempty"`
	ParentFrame string           `json:"parent_frame,omitempty"`
}

// CollectText walks the visible tree and extracts every TEXT node in
// document order, classifying each as it goes.
func CollectText(root *figma.Node, t Thresholds) []ExtractedText {
	if root == nil {
		return nil
	}
	var out []ExtractedText
	collectText(root, nil, t, &out)
	return out
}

func collectText(node *figma.Node, path []string, t Thresholds, out *[]ExtractedText) {
	if !node.Visible {
		return
	}
	if node.IsText() {
		parent := ""
		var ancestors []string
		if len(path) > 0 {
			parent = path[len(path)-1]
			ancestors = path[:len(path)-1]
		}
		entry := ExtractedText{
			ID:          node.ID,
			Text:        node.Characters,
			Role:        ClassifyTextRole(node, parent, ancestors, t),
			NodeName:    node.Name,
			FramePath:   append([]string(nil), path...),
			Style:       node.Style,
			Bounds:      node.AbsoluteBoundingBox,
			ParentFrame: parent,
		}
		*out = append(*out, entry)
		return
	}

	childPath := path
	if node.Type != figma.NodeDocument && node.Type != figma.NodeCanvas {
		childPath = append(path, node.Name)
	}
	for _, child := range node.Children {
		collectText(child, childPath, t, out)
	}
}
