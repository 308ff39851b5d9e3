package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
	"github.com/matzehuels/framespec/pkg/pipeline"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// FrameListModel - Interactive frame selection
// =============================================================================

// frameItem is one selectable row in the frame picker.
type frameItem struct {
	ID     string
	Name   string
	Page   string
	Type   figma.NodeType
	Width  int
	Height int
	Layers int
}

// FrameListModel is the bubbletea model for interactive frame selection.
type FrameListModel struct {
	File     string
	Frames   []frameItem
	Cursor   int
	Selected *frameItem
	Height   int
	Offset   int
}

// NewFrameListModel creates a new frame list model.
func NewFrameListModel(file string, frames []frameItem) FrameListModel {
	return FrameListModel{
		File:   file,
		Frames: frames,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m FrameListModel) Init() tea.Cmd {
	return nil
}

func (m FrameListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Frames)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &m.Frames[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m FrameListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Frame"))
	if m.File != "" {
		b.WriteString(listDimStyle.Render("  " + m.File))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Frames) {
		end = len(m.Frames)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Frames[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		size := "—"
		if f.Width > 0 && f.Height > 0 {
			size = fmt.Sprintf("%d×%d", f.Width, f.Height)
		}

		rows = append(rows, []string{
			cursor, f.Name, f.Page, string(f.Type), size, fmt.Sprintf("%d", f.Layers),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Frame", "Page", "Type", "Size", "Layers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			isCurrent := m.Offset+row == m.Cursor

			base := lipgloss.NewStyle()
			if col == 3 || col == 5 {
				if isCurrent {
					base = base.Foreground(colorGray)
				} else {
					base = base.Foreground(colorDim)
				}
			}

			if isCurrent {
				if col != 3 && col != 5 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Frames))))

	return b.String()
}

// =============================================================================
// Picker Entry Point
// =============================================================================

// pickFrame fetches the full document and runs the interactive frame picker.
// It returns the selected frame ID, or "" when the user quits without
// choosing. The fetched response lands in the cache, so the compile that
// follows reuses it instead of paying for a second download.
func (c *CLI) pickFrame(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (string, error) {
	spinner := newSpinnerWithContext(ctx, "Fetching file...")
	spinner.Start()

	file, err := runner.Fetch(ctx, pipeline.Options{
		Ref:    opts.Ref,
		API:    opts.API,
		Logger: c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return "", describeFailure(err)
	}
	spinner.Stop()

	frames := collectFrames(file.Document)
	if len(frames) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no top-level frames to pick from")
	}

	p := tea.NewProgram(NewFrameListModel(file.Name, frames))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("frame picker: %w", err)
	}

	final, ok := finalModel.(FrameListModel)
	if !ok || final.Selected == nil {
		return "", nil
	}
	return final.Selected.ID, nil
}

// collectFrames lists the visible top-level frames of every page, descending
// into sections so grouped frames stay reachable.
func collectFrames(doc *figma.Node) []frameItem {
	var items []frameItem
	if doc == nil {
		return items
	}
	for _, page := range doc.Children {
		if page.Type != figma.NodeCanvas {
			continue
		}
		for _, child := range page.Children {
			items = append(items, framesUnder(child, page.Name)...)
		}
	}
	return items
}

// framesUnder returns the pickable frames rooted at n.
func framesUnder(n *figma.Node, page string) []frameItem {
	if n == nil || !n.Visible {
		return nil
	}

	if n.Type == figma.NodeSection {
		var items []frameItem
		for _, child := range n.Children {
			items = append(items, framesUnder(child, page)...)
		}
		return items
	}

	switch n.Type {
	case figma.NodeFrame, figma.NodeComponent, figma.NodeComponentSet, figma.NodeInstance:
	default:
		return nil
	}

	b := n.Bounds()
	return []frameItem{{
		ID:     n.ID,
		Name:   n.Name,
		Page:   page,
		Type:   n.Type,
		Width:  int(b.Width),
		Height: int(b.Height),
		Layers: countLayers(n),
	}}
}

// countLayers counts the descendants of n, the node itself excluded.
func countLayers(n *figma.Node) int {
	count := 0
	for _, child := range n.Children {
		count += 1 + countLayers(child)
	}
	return count
}
