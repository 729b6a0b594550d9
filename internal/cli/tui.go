package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/repertree/repertree/pkg/pgn"
	"github.com/repertree/repertree/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive move tree navigation
// =============================================================================

// frame is one step of the path from the root to the current node.
type frame struct {
	node   *tree.Node
	ply    pgn.Ply // ply of the node's children
	cursor int     // selected child when this frame was left
}

// TreeModel is the bubbletea model for browsing a converted repertoire.
type TreeModel struct {
	Title     string
	Positions int
	path      []frame
	Cursor    int
	Height    int
	Offset    int
}

// NewTreeModel creates a tree model positioned at the root.
func NewTreeModel(title string, res *tree.Result, start pgn.Ply) TreeModel {
	return TreeModel{
		Title:     title,
		Positions: res.PositionCount,
		path:      []frame{{node: res.Root, ply: start}},
		Height:    15,
	}
}

func (m TreeModel) current() frame {
	return m.path[len(m.path)-1]
}

// Current returns the node whose continuations are listed.
func (m TreeModel) Current() *tree.Node {
	return m.current().node
}

// Line returns the moves from the root to the current node, numbered.
func (m TreeModel) Line() []string {
	out := make([]string, 0, len(m.path)-1)
	for i := 1; i < len(m.path); i++ {
		parent := m.path[i-1]
		out = append(out, parent.ply.Label(m.path[i].node.SAN()))
	}
	return out
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Current().Children)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			return m.descend(), nil
		case "left", "h", "backspace":
			return m.ascend(), nil
		case "home", "g":
			for len(m.path) > 1 {
				m = m.ascend()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// descend moves into the selected child. Transposition leaves have nothing
// below them and are not entered.
func (m TreeModel) descend() TreeModel {
	children := m.Current().Children
	if len(children) == 0 {
		return m
	}
	child := children[m.Cursor]
	if child.Transposition || len(child.Children) == 0 {
		return m
	}
	path := make([]frame, len(m.path), len(m.path)+1)
	copy(path, m.path)
	path[len(path)-1].cursor = m.Cursor
	m.path = append(path, frame{node: child, ply: m.current().ply.Next()})
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m TreeModel) ascend() TreeModel {
	if len(m.path) == 1 {
		return m
	}
	m.path = m.path[:len(m.path)-1]
	m.Cursor = m.current().cursor
	m.Offset = 0
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d positions", m.Positions)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  → enter  ← back  g start  q quit"))
	b.WriteString("\n\n")

	line := strings.Join(m.Line(), " ")
	if line == "" {
		line = "(start)"
	}
	b.WriteString(StyleValue.Render(line))
	b.WriteString("\n\n")

	children := m.Current().Children
	if len(children) == 0 {
		b.WriteString(listDimStyle.Render("  end of line"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(children) {
		end = len(children)
	}
	ply := m.current().ply

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := children[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		kind := "reply"
		if c.Move != nil && c.Move.Planned {
			kind = "planned"
		}
		role := "variation"
		if i == 0 {
			role = "mainline"
		}
		next := fmt.Sprintf("%d", len(c.Children))
		if c.Transposition {
			next = iconTransposition + " transposes"
		}
		rows = append(rows, []string{cursor, ply.Label(c.SAN()), kind, role, next})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Move", "Side", "Role", "Continuations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(children) {
				return lipgloss.NewStyle()
			}
			c := children[idx]
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case c.Transposition:
				return listDimStyle
			case c.Move != nil && c.Move.Planned:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(children))))

	return b.String()
}
