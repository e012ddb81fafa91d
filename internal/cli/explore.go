package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/layout"
)

// exploreDelay is how long the cursor must rest on a person before its
// bloodline is traced.
const exploreDelay = 150 * time.Millisecond

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMemberStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// exploreCommand creates the explore command, an interactive bloodline browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "explore [persons.json]",
		Short: "Browse a family tree and highlight bloodlines interactively",
		Long: `Browse a family tree and highlight bloodlines interactively.

Persons are listed by generation. Moving the cursor traces the bloodline of
the person under it; members are marked in the list.

Only persons in the visible window are highlighted unless limit mode is
switched off with v.

Keys: ↑/↓ move, ⏎ trace now, v toggle limit, c clear, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := flags.opts
			opts.Logger = c.Logger
			persons, err := c.loadPersons(cmd.Context(), runner, cfg, firstArg(args), opts)
			if err != nil {
				return fmt.Errorf("load persons: %w", err)
			}
			res, err := runner.Layout(cmd.Context(), persons, opts)
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}

			m := newExploreModel(persons, res)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			m.bind(debounce.New(exploreDelay), p.Send)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.ValidArgsFunction = completePersonFiles
	return cmd
}

// =============================================================================
// exploreModel - Interactive bloodline browser
// =============================================================================

// traceMsg asks the model to trace the bloodline of a person.
type traceMsg struct{ id string }

// exploreState is shared by every copy of the model. bubbletea passes models
// by value; the debouncer and program hook must not be copied apart.
type exploreState struct {
	engine   *highlight.Engine
	debounce func(func())
	send     func(tea.Msg)

	// visible is the window of the last trace.
	visible map[string]bool
}

// exploreModel is the bubbletea model for the explore command.
type exploreModel struct {
	rows      []layout.Placement
	names     map[string]string
	state     *exploreState
	cursor    int
	offset    int
	height    int
	limit     bool
	bloodline *highlight.Bloodline
	members   map[string]bool
	err       error
}

// newExploreModel lists the placements of res by generation, then x.
func newExploreModel(persons []family.Person, res *layout.Result) exploreModel {
	canvas := highlight.NewMemoryCanvas(persons)
	names := make(map[string]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.DisplayName()
	}

	rows := slices.Clone(res.Placements)
	slices.SortStableFunc(rows, func(a, b layout.Placement) int {
		if a.Generation != b.Generation {
			return a.Generation - b.Generation
		}
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})

	state := &exploreState{}
	state.engine = highlight.New(canvas, highlight.IndexChildren(persons), highlight.Options{
		Visibility: highlight.VisibleFunc(func(id string) bool { return state.visible[id] }),
	})
	return exploreModel{
		rows:   rows,
		names:  names,
		height: 15,
		limit:  true,
		state:  state,
	}
}

// window returns the IDs of the rows currently on screen.
func (m exploreModel) window() map[string]bool {
	end := min(m.offset+m.height, len(m.rows))
	ids := make(map[string]bool, max(end-m.offset, 0))
	for i := m.offset; i < end; i++ {
		ids[m.rows[i].ID] = true
	}
	return ids
}

// bind connects the model to a running program.
func (m exploreModel) bind(debounced func(func()), send func(tea.Msg)) {
	m.state.debounce = debounced
	m.state.send = send
}

// current returns the ID under the cursor.
func (m exploreModel) current() string {
	if len(m.rows) == 0 {
		return ""
	}
	return m.rows[m.cursor].ID
}

// schedule traces id after the cursor has rested. Without a bound program the
// trace is returned as a command.
func (m exploreModel) schedule(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	if m.state.debounce == nil || m.state.send == nil {
		return func() tea.Msg { return traceMsg{id: id} }
	}
	send := m.state.send
	m.state.debounce(func() { send(traceMsg{id: id}) })
	return nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
				return m, m.schedule(m.current())
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
				return m, m.schedule(m.current())
			}
		case "enter":
			return m.trace(m.current()), nil
		case "v":
			m.limit = !m.limit
			if m.bloodline == nil {
				return m, nil
			}
			m.state.engine.ClearHighlights()
			return m.trace(m.bloodline.Root), nil
		case "c":
			m.state.engine.ClearHighlights()
			m.bloodline = nil
			m.members = nil
		}
	case traceMsg:
		return m.trace(msg.id), nil
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

// trace highlights the bloodline of id over the current window and records
// the highlighted members.
func (m exploreModel) trace(id string) exploreModel {
	if id == "" {
		return m
	}
	m.state.visible = m.window()
	bl, err := m.state.engine.HighlightBloodline(context.Background(), id, highlight.Limit(m.limit))
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.bloodline = &bl
	snap := m.state.engine.Snapshot()
	m.members = make(map[string]bool, len(snap.Nodes))
	for _, p := range snap.Nodes {
		m.members[p] = true
	}
	return m
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Bloodlines"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ trace  v limit  c clear  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		p := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := ""
		if m.members[p.ID] {
			mark = "●"
		}
		rows = append(rows, []string{cursor, p.ID, m.names[p.ID], fmt.Sprintf("%d", p.Generation), fmt.Sprintf("%.0f", p.X), mark})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Gen", "X", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.cursor:
				return listSelectedStyle
			case m.members[m.rows[idx].ID]:
				return listMemberStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if len(m.rows) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}
	if m.bloodline != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  bloodline of %s: %d persons, %d highlighted, %d unions, %d edges",
			m.bloodline.Root, len(m.bloodline.Persons), len(m.members), len(m.bloodline.Unions), len(m.state.engine.Snapshot().Edges))))
	}
	if !m.limit {
		b.WriteString(listDimStyle.Render("  (limit off)"))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.err.Error()))
	}

	return b.String()
}
