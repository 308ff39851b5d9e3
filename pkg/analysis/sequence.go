package analysis

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/matzehuels/framespec/pkg/figma"
)

// SequentialPattern records an ordered run of numbered siblings. Formatters
// must preserve the exact order and spacing of such runs instead of
// reflowing them: "Step 2, Step 1, Step 3" is not a working onboarding.
type SequentialPattern struct {
	Kind    string   `json:"kind"`
	Labels  []string `json:"labels"`
	NodeIDs []string `json:"node_ids"`
}

// Names like "Step 1" or "03 / Research" carry their number anywhere; text
// content counts only when it leads with the number.
var (
	anyIntRegex     = regexp.MustCompile(`\d+`)
	leadingIntRegex = regexp.MustCompile(`^\s*(\d+)`)
)

// DetectSequence looks for an ordered numeric run among siblings two ways:
// integers embedded in the sibling names, or leading integers in each
// sibling's first nested text. A run must be consecutive after sorting and
// at least minRun long.
func DetectSequence(siblings []*figma.Node, minRun int) *SequentialPattern {
	if minRun < 2 {
		minRun = 2
	}

	if p := sequenceFrom(siblings, minRun, "numbered-steps", func(n *figma.Node) (int, string, bool) {
		m := anyIntRegex.FindString(n.Name)
		if m == "" {
			return 0, "", false
		}
		num, err := strconv.Atoi(m)
		if err != nil {
			return 0, "", false
		}
		return num, n.Name, true
	}); p != nil {
		return p
	}

	return sequenceFrom(siblings, minRun, "numbered-steps", func(n *figma.Node) (int, string, bool) {
		text := firstText(n)
		if text == "" {
			return 0, "", false
		}
		m := leadingIntRegex.FindStringSubmatch(text)
		if m == nil {
			return 0, "", false
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, "", false
		}
		return num, text, true
	})
}

type sequenceEntry struct {
	num   int
	label string
	id    string
}

// sequenceFrom extracts a number from each sibling and checks that the
// matched siblings form one consecutive ascending run.
func sequenceFrom(siblings []*figma.Node, minRun int, kind string, extract func(*figma.Node) (int, string, bool)) *SequentialPattern {
	var entries []sequenceEntry
	for _, n := range siblings {
		if !n.Visible {
			continue
		}
		if num, label, ok := extract(n); ok {
			entries = append(entries, sequenceEntry{num: num, label: label, id: n.ID})
		}
	}
	if len(entries) < minRun {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].num < entries[j].num })
	for i := 1; i < len(entries); i++ {
		if entries[i].num != entries[i-1].num+1 {
			return nil
		}
	}

	p := &SequentialPattern{Kind: kind}
	for _, e := range entries {
		p.Labels = append(p.Labels, e.label)
		p.NodeIDs = append(p.NodeIDs, e.id)
	}
	return p
}

// firstText returns the characters of the first visible TEXT descendant in
// document order, or "".
func firstText(node *figma.Node) string {
	if !node.Visible {
		return ""
	}
	if node.IsText() {
		return node.Characters
	}
	for _, child := range node.Children {
		if t := firstText(child); t != "" {
			return t
		}
	}
	return ""
}
