package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wat-syntax/wat"
	"github.com/wippyai/wat-syntax/wat/cst"
	"github.com/wippyai/wat-syntax/wat/source"
	"github.com/wippyai/wat-syntax/wat/token"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// previewWidth bounds the text shown after a node on its row.
const previewWidth = 40

// chromeHeight is the number of lines around the tree viewport.
const chromeHeight = 6

type row struct {
	node  *cst.Node
	depth int
}

type browserModel struct {
	collapsed map[*cst.Node]bool
	res       *wat.Result
	index     *source.Index
	name      string
	status    string
	rows      []row
	filter    textinput.Model
	viewport  viewport.Model
	cursor    int
	diag      int // next diagnostic for 'd'
	kind      cst.Kind
	filtering bool
}

func newBrowserModel(name, src string, o *options) *browserModel {
	ti := textinput.New()
	ti.Prompt = "kind: "
	ti.Placeholder = "FoldedInstr"
	ti.Width = 30

	m := &browserModel{
		name:      name,
		res:       wat.ParseWithConfig(src, &wat.Config{Entry: o.entry, MaxDepth: o.maxDepth}),
		index:     source.NewIndex(src),
		collapsed: make(map[*cst.Node]bool),
		filter:    ti,
		viewport:  viewport.New(80, 20),
	}
	m.rebuild()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

// rebuild recomputes the visible rows. With a kind filter active the rows
// are every node of that kind, otherwise the expanded tree without
// whitespace leaves.
func (m *browserModel) rebuild() {
	var sel *cst.Node
	if m.cursor < len(m.rows) {
		sel = m.rows[m.cursor].node
	}

	m.rows = m.rows[:0]
	var visit func(n *cst.Node, depth int)
	visit = func(n *cst.Node, depth int) {
		if n.IsToken() && n.Token.Kind == token.Whitespace {
			return
		}
		if m.kind == 0 || n.Kind == m.kind {
			m.rows = append(m.rows, row{node: n, depth: depth})
		}
		if m.kind == 0 && m.collapsed[n] {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(m.res.Root, 0)
	if m.kind != 0 {
		for i := range m.rows {
			m.rows[i].depth = 0
		}
	}

	m.cursor = 0
	for i, r := range m.rows {
		if r.node == sel {
			m.cursor = i
			break
		}
	}
	m.refresh()
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "enter":
			if m.cursor < len(m.rows) && m.kind == 0 {
				n := m.rows[m.cursor].node
				if len(n.Children) > 0 {
					m.collapsed[n] = !m.collapsed[n]
					m.rebuild()
				}
			}

		case "/":
			m.filtering = true
			m.status = ""
			m.filter.SetValue("")
			return m, m.filter.Focus()

		case "esc":
			if m.kind != 0 {
				m.kind = 0
				m.status = ""
				m.rebuild()
			}

		case "d":
			m.nextDiagnostic()
		}
		m.refresh()
	}
	return m, nil
}

func (m *browserModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil

	case "enter":
		m.filtering = false
		m.filter.Blur()
		name := strings.TrimSpace(m.filter.Value())
		if name == "" {
			m.kind = 0
			m.rebuild()
			return m, nil
		}
		k, ok := cst.ParseKind(name)
		if !ok {
			m.status = fmt.Sprintf("unknown kind %q", name)
			return m, nil
		}
		m.kind = k
		m.status = fmt.Sprintf("%d %s nodes", m.count(k), k)
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *browserModel) count(k cst.Kind) int {
	return len(m.res.Root.FindAll(k))
}

// nextDiagnostic moves the cursor to the last visible row starting at or
// before the next diagnostic, cycling through them.
func (m *browserModel) nextDiagnostic() {
	diags := m.res.Diagnostics
	if len(diags) == 0 {
		m.status = "no diagnostics"
		return
	}
	d := diags[m.diag%len(diags)]
	m.diag = (m.diag + 1) % len(diags)

	for i, r := range m.rows {
		if r.node.Start <= d.Start {
			m.cursor = i
		}
	}
	m.status = fmt.Sprintf("%s: %s", m.index.Position(d.Start), d.Message)
}

// refresh redraws the rows into the viewport and keeps the cursor in view.
func (m *browserModel) refresh() {
	var b strings.Builder
	for i, r := range m.rows {
		line := m.formatRow(r)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	m.viewport.SetContent(b.String())

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *browserModel) formatRow(r row) string {
	n := r.node
	indent := strings.Repeat("  ", r.depth)
	if n.IsToken() {
		return indent + tokenStyle.Render(n.Token.Kind.String()) + " " + preview(n.Token.Text)
	}

	marker := ""
	if len(n.Children) > 0 && m.collapsed[n] {
		marker = "+ "
	}
	kind := kindStyle.Render(n.Kind.String())
	if n.Kind == cst.Error {
		kind = errorStyle.Render(n.Kind.String())
	}
	pos := m.index.Position(n.Start)
	return fmt.Sprintf("%s%s%s %s %s", indent, marker, kind, helpStyle.Render(pos.String()), preview(n.Text()))
}

// preview collapses whitespace and shortens text to previewWidth runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > previewWidth {
		text = string(r[:previewWidth]) + "..."
	}
	return strconv.Quote(text)
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("WAT Syntax"))
	b.WriteString(" ")
	b.WriteString(m.name)
	b.WriteString(" ")
	if n := len(m.res.Diagnostics); n > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d diagnostics", n)))
	} else {
		b.WriteString(okStyle.Render("no diagnostics"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(m.filter.View())
	case m.status != "":
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter fold • / filter kind • esc clear • d next error • q quit"))

	return b.String()
}

func runInteractive(name, src string, o *options) error {
	p := tea.NewProgram(newBrowserModel(name, src, o), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
