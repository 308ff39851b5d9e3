package render

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/analysis"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// ContentNode is one entry of the nested content tree: a container that
// holds text somewhere below it, or a text leaf with its classified role.
type ContentNode struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Role     string         `json:"role,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []*ContentNode `json:"children,omitempty"`
}

// Content renders the content extraction report: per-page JSON content
// trees, aggregated navigation lists, and role statistics.
func Content(file *figma.FileResponse, t analysis.Thresholds) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Content Inventory: %s\n\n", file.Name)

	var all []analysis.ExtractedText
	for _, page := range contentPages(file.Document) {
		tree := ContentTree(page, t)
		if tree == nil {
			continue
		}
		fmt.Fprintf(&b, "## Page: %s\n\n", page.Name)

		payload, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize content tree for %s", page.Name)
		}
		b.WriteString("```json\n")
		b.Write(payload)
		b.WriteString("\n```\n\n")

		all = append(all, analysis.CollectText(page, t)...)
	}

	writeNavigation(&b, all)
	writeRoleStats(&b, all)

	return b.String(), nil
}

// ContentTree prunes a subtree down to its text: containers survive only
// when text lives below them, text leaves carry their role and content.
func ContentTree(node *figma.Node, t analysis.Thresholds) *ContentNode {
	return contentTree(node, "", nil, t)
}

func contentTree(node *figma.Node, parentName string, path []string, t analysis.Thresholds) *ContentNode {
	if !node.Visible {
		return nil
	}

	if node.IsText() {
		text := strings.TrimSpace(node.Characters)
		if text == "" {
			return nil
		}
		return &ContentNode{
			Name: node.Name,
			Type: string(node.Type),
			Role: string(analysis.ClassifyTextRole(node, parentName, path, t)),
			Text: node.Characters,
		}
	}

	childPath := path
	if parentName != "" {
		childPath = append(append([]string(nil), path...), parentName)
	}
	childParent := node.Name
	if node.Type == figma.NodeDocument || node.Type == figma.NodeCanvas {
		childParent = ""
	}
	var children []*ContentNode
	for _, child := range node.Children {
		if sub := contentTree(child, childParent, childPath, t); sub != nil {
			children = append(children, sub)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &ContentNode{
		Name:     node.Name,
		Type:     string(node.Type),
		Children: children,
	}
}

// contentPages returns the units the report sections by: pages for a full
// document, the node itself otherwise.
func contentPages(doc *figma.Node) []*figma.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == figma.NodeDocument {
		return analysis.Pages(doc)
	}
	return []*figma.Node{doc}
}

// navPatterns match the frames whose text counts as navigation even when
// the role classifier read the individual entries differently.
var navPatterns = []string{"navbar", "navigation", "nav", "menu", "header"}

var footerPatterns = []string{"footer"}

// writeNavigation aggregates the primary and footer navigation entries
// across pages, by role and by enclosing-frame name.
func writeNavigation(b *strings.Builder, texts []analysis.ExtractedText) {
	primary := collectNav(texts, analysis.RoleNavigation, navPatterns)
	footer := collectNav(texts, analysis.RoleFooter, footerPatterns)
	if len(primary) == 0 && len(footer) == 0 {
		return
	}

	b.WriteString("## Navigation\n\n")
	if len(primary) > 0 {
		b.WriteString("Primary:\n\n")
		for _, item := range primary {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}
	if len(footer) > 0 {
		b.WriteString("Footer:\n\n")
		for _, item := range footer {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}
}

// collectNav picks the texts matching a role or living under a frame whose
// name matches one of the patterns, deduplicated in document order.
func collectNav(texts []analysis.ExtractedText, role analysis.SemanticRole, patterns []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range texts {
		entry := strings.TrimSpace(t.Text)
		if entry == "" || seen[entry] {
			continue
		}
		if t.Role != role && !frameMatches(t, patterns) {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return out
}

func frameMatches(t analysis.ExtractedText, patterns []string) bool {
	for _, frame := range append(t.FramePath, t.ParentFrame) {
		lower := strings.ToLower(frame)
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// writeRoleStats emits the role-count table, most frequent first.
func writeRoleStats(b *strings.Builder, texts []analysis.ExtractedText) {
	if len(texts) == 0 {
		return
	}
	counts := map[string]int{}
	for _, t := range texts {
		counts[string(t.Role)]++
	}

	roles := make([]string, 0, len(counts))
	for r := range counts {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		if counts[roles[i]] != counts[roles[j]] {
			return counts[roles[i]] > counts[roles[j]]
		}
		return roles[i] < roles[j]
	})

	b.WriteString("## Text Statistics\n\n")
	fmt.Fprintf(b, "%d text nodes extracted.\n\n", len(texts))
	b.WriteString("| Role | Count |\n|------|-------|\n")
	for _, r := range roles {
		fmt.Fprintf(b, "| %s | %d |\n", r, counts[r])
	}
	b.WriteString("\n")
}
