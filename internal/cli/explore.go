package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/storyloom/storyloom/pkg/interaction"
	"github.com/storyloom/storyloom/pkg/story"
	"github.com/storyloom/storyloom/pkg/storyfile"
)

// cursorStep is how far one key press moves the edge-creation cursor in
// graph-space.
const cursorStep = 20.0

// Explore styles
var (
	exploreSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreCandidateStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	exploreNormalStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command for interactive navigation.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [story.json]",
		Short: "Navigate a story graph interactively in the terminal",
		Long: `Navigate a story graph interactively in the terminal.

Arrow keys move the selection to the nearest node in that direction, using
the node positions from the file. Press 'e' to start drawing an edge from
the selected node: arrow keys then steer the cursor, a target within snap
range lights up, enter completes the edge and esc abandons it. Press 'w'
to write changes back to the file and 'q' to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(args[0])
		},
	}
}

func (c *CLI) runExplore(path string) error {
	g, err := storyfile.ReadGraphFile(path)
	if err != nil {
		return fmt.Errorf("load story %s: %w", path, err)
	}

	model := newExploreModel(g, path)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	if m, ok := final.(exploreModel); ok && m.dirty {
		printInfo("Unsaved changes discarded (use 'w' to save before quitting)")
	}
	return nil
}

// exploreModel is the bubbletea model for interactive graph navigation.
type exploreModel struct {
	graph  *story.Graph
	ctrl   *interaction.Controller
	path   string
	status string
	dirty  bool
	height int
	offset int
}

func newExploreModel(g *story.Graph, path string) exploreModel {
	return exploreModel{
		graph:  g,
		ctrl:   interaction.NewController(g, interaction.Defaults{}),
		path:   path,
		status: "ready",
		height: 15,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ctrl.State() == interaction.Creating {
			return m.updateCreating(msg)
		}
		return m.updateIdle(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// updateIdle handles keys while no edge-creation session is live.
func (m exploreModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveSelection(story.DirUp)
	case "down", "j":
		m.moveSelection(story.DirDown)
	case "left", "h":
		m.moveSelection(story.DirLeft)
	case "right", "l":
		m.moveSelection(story.DirRight)
	case "e":
		id, ok := m.graph.SelectedID()
		if !ok {
			m.status = "select a node first"
			break
		}
		m.ctrl.Start(id)
		if n, ok := m.graph.Node(id); ok {
			m.ctrl.UpdatePosition(n.Position.X, n.Position.Y)
		}
		m.status = "drawing edge from " + id
	case "w":
		if err := storyfile.WriteGraphFile(m.graph, m.path); err != nil {
			m.status = "save failed: " + err.Error()
			break
		}
		m.dirty = false
		m.status = "saved " + m.path
	case "esc":
		m.graph.ClearSelection()
		m.status = "selection cleared"
	}
	m.scrollToSelection()
	return m, nil
}

// updateCreating handles keys while an edge-creation session is live.
func (m exploreModel) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess, _ := m.ctrl.Session()
	x, y := sess.Cursor.X, sess.Cursor.Y

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.ctrl.UpdatePosition(x, y-cursorStep)
	case "down", "j":
		m.ctrl.UpdatePosition(x, y+cursorStep)
	case "left", "h":
		m.ctrl.UpdatePosition(x-cursorStep, y)
	case "right", "l":
		m.ctrl.UpdatePosition(x+cursorStep, y)
	case "enter":
		if e, ok := m.ctrl.Complete(); ok {
			m.dirty = true
			m.status = fmt.Sprintf("edge %s → %s created", e.Source, e.Target)
		} else {
			m.status = "no target in range, edge abandoned"
		}
	case "esc", "q":
		m.ctrl.Cancel()
		m.status = "edge creation cancelled"
	}
	return m, nil
}

// moveSelection applies directional navigation and reports it in the status.
func (m *exploreModel) moveSelection(dir story.Direction) {
	if m.graph.SelectDirectional(dir) {
		if id, ok := m.graph.SelectedID(); ok {
			m.status = "selected " + id
		}
	}
}

// scrollToSelection keeps the selected node inside the visible window.
func (m *exploreModel) scrollToSelection() {
	id, ok := m.graph.SelectedID()
	if !ok {
		return
	}
	for i, n := range m.graph.Nodes() {
		if n.ID != id {
			continue
		}
		if i < m.offset {
			m.offset = i
		}
		if i >= m.offset+m.height {
			m.offset = i - m.height + 1
		}
		return
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Storyloom Explore"))
	b.WriteString("  ")
	b.WriteString(exploreDimStyle.Render(m.path))
	b.WriteString("\n")
	if m.ctrl.State() == interaction.Creating {
		b.WriteString(exploreDimStyle.Render("↑/↓/←/→ steer  ⏎ connect  esc cancel"))
	} else {
		b.WriteString(exploreDimStyle.Render("↑/↓/←/→ navigate  e edge  w save  q quit"))
	}
	b.WriteString("\n\n")

	selected, _ := m.graph.SelectedID()
	candidate := ""
	if sess, ok := m.ctrl.Session(); ok {
		candidate = sess.CandidateID
	}

	nodes := m.graph.Nodes()
	end := m.offset + m.height
	if end > len(nodes) {
		end = len(nodes)
	}

	for i := m.offset; i < end; i++ {
		n := nodes[i]

		cursor := "  "
		style := exploreNormalStyle
		switch n.ID {
		case selected:
			cursor = "▸ "
			style = exploreSelectedStyle
		case candidate:
			cursor = "◂ "
			style = exploreCandidateStyle
		}

		label := n.Label
		if label == "" {
			label = n.ID
		}
		line := fmt.Sprintf("%s%-24s (%.0f, %.0f)", cursor, label, n.Position.X, n.Position.Y)
		if n.BranchID != "" {
			line += exploreDimStyle.Render("  [" + n.BranchID + "]")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render(fmt.Sprintf("%d nodes · %d edges", m.graph.NodeCount(), m.graph.EdgeCount())))
	if m.dirty {
		b.WriteString(exploreDimStyle.Render(" · unsaved"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status))
	b.WriteString("\n")

	return b.String()
}
