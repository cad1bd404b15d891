package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/fits"
)

// previewRows bounds the rows loaded into the data view.
const previewRows = 500

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	summary  *fileSummary
	filename string
	opts     fits.Options
	filter   textinput.Model
	header   viewport.Model
	data     table.Model
	selected int
	width    int
	height   int
	state    modelState
}

type modelState int

const (
	stateSelectHDU modelState = iota
	stateHeader
	stateFilter
	stateData
)

func newInteractiveModel(filename string, opts fits.Options) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "keyword"
	ti.Width = 30

	return &interactiveModel{
		filename: filename,
		opts:     opts,
		filter:   ti,
		header:   viewport.New(80, 20),
		data:     table.New(),
		width:    80,
		height:   24,
		state:    stateSelectHDU,
	}
}

type loadedMsg struct {
	err     error
	summary *fileSummary
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *interactiveModel) loadFile() tea.Msg {
	f, err := fits.Open(m.filename, m.opts)
	if err != nil {
		return loadedMsg{err: err}
	}
	s, err := summarize(m.filename, f, -1, previewRows)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{summary: &s}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.Width = msg.Width
		m.header.Height = max(msg.Height-6, 3)
		m.data.SetWidth(msg.Width)
		m.data.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = msg.summary
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.state != stateSelectHDU {
				m.state = stateSelectHDU
				m.filter.SetValue("")
				return m, nil
			}

		case "up", "k":
			if m.state == stateSelectHDU && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectHDU && m.summary != nil && m.selected < len(m.summary.HDUs)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == stateSelectHDU && m.summary != nil {
				m.showHeader()
				return m, nil
			}

		case "d":
			if m.state != stateData && m.summary != nil && m.openData() {
				m.state = stateData
				return m, nil
			}

		case "/":
			if m.state == stateHeader {
				m.state = stateFilter
				return m, m.filter.Focus()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case stateHeader:
		m.header, cmd = m.header.Update(msg)
	case stateData:
		m.data, cmd = m.data.Update(msg)
	}
	return m, cmd
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateHeader
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.header.SetContent(m.headerText())
	m.header.GotoTop()
	return m, cmd
}

func (m *interactiveModel) showHeader() {
	m.state = stateHeader
	m.filter.SetValue("")
	m.header.SetContent(m.headerText())
	m.header.GotoTop()
}

func (m *interactiveModel) headerText() string {
	h := m.summary.HDUs[m.selected]
	needle := strings.ToUpper(m.filter.Value())

	var b strings.Builder
	for _, kw := range h.Keywords {
		if needle != "" && !strings.Contains(kw.Name, needle) {
			continue
		}
		fmt.Fprintf(&b, "%-8s", kw.Name)
		if kw.Value != "" {
			b.WriteString(" = ")
			b.WriteString(kindStyle.Render(kw.Value))
		}
		if kw.Comment != "" {
			b.WriteString(" ")
			b.WriteString(helpStyle.Render("/ " + kw.Comment))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// openData loads the selected table preview into the data view. It
// reports false for HDUs without tabular data.
func (m *interactiveModel) openData() bool {
	t := m.summary.HDUs[m.selected].Table
	if t == nil {
		return false
	}

	cols := make([]table.Column, len(t.Columns))
	for i, c := range t.Columns {
		w := max(len(c.Name), len(c.Form), 6)
		for _, row := range t.Preview {
			w = max(w, min(len(row[i]), 30))
		}
		cols[i] = table.Column{Title: c.Name, Width: w}
	}
	rows := make([]table.Row, len(t.Preview))
	for i, r := range t.Preview {
		rows[i] = table.Row(r)
	}

	m.data = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)),
		table.WithWidth(m.width),
	)
	styles := table.DefaultStyles()
	styles.Selected = selectedStyle
	m.data.SetStyles(styles)
	return true
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.summary == nil {
		return "Loading file..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("FITS Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectHDU:
		b.WriteString("Select an HDU:\n\n")
		for i, h := range m.summary.HDUs {
			line := fmt.Sprintf("%2d  %-8s %s", h.Index, h.Kind, h.Name)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter header • d data • q quit"))

	case stateHeader, stateFilter:
		b.WriteString(m.header.View())
		b.WriteString("\n")
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ scroll • / filter • d data • esc back • q quit"))

	case stateData:
		t := m.summary.HDUs[m.selected].Table
		fmt.Fprintf(&b, "%d rows, showing %d\n\n", t.Rows, len(t.Preview))
		b.WriteString(m.data.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ rows • esc back • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, opts fits.Options) error {
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
