// Package explorer is an interactive terminal browser for a posterior:
// a variable list on top of trace and density views rendered through the
// term plot backend.
package explorer

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/plot"
	_ "github.com/davin-cb/bayeslab/plot/term"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type state int

const (
	stateList state = iota
	stateDetail
)

type entry struct {
	name  string
	shape string
}

// Model is the bubbletea model for the explorer.
type Model struct {
	data  *inference.Data
	title string

	state   state
	entries []entry
	cursor  int

	combined    bool
	divergences bool

	width  int
	height int
}

// New builds an explorer over the posterior group of data. The title is
// shown in the header, typically the stored run id.
func New(data *inference.Data, title string) (Model, error) {
	posterior, ok := data.Posterior()
	if !ok {
		return Model{}, plot.ErrNoPosterior
	}
	m := Model{
		data:        data,
		title:       title,
		divergences: true,
		width:       100,
		height:      30,
	}
	for _, name := range posterior.Names() {
		a, _ := posterior.Get(name)
		m.entries = append(m.entries, entry{name: name, shape: shapeLabel(a.Dims(), a.Shape())})
	}
	return m, nil
}

// Run drives the explorer until the user quits.
func Run(data *inference.Data, title string) error {
	m, err := New(data, title)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func shapeLabel(dims []string, shape []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%s:%d", d, shape[i])
	}
	return strings.Join(parts, " ")
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateList:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.entries) > 0 {
				m.state = stateDetail
			}
		}
	case stateDetail:
		switch msg.String() {
		case "q", "esc":
			m.state = stateList
		case "ctrl+c":
			return m, tea.Quit
		case "c":
			m.combined = !m.combined
		case "d":
			m.divergences = !m.divergences
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + cyan.Render("bayeslab") + "  " + dim.Render(m.title) + "\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", 40)) + "\n\n")

	if len(m.entries) == 0 {
		b.WriteString(dim.Render("  posterior has no variables") + "\n")
	}
	for i, e := range m.entries {
		if i == m.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", e.name)) + dim.Render(e.shape) + "\n")
		} else {
			b.WriteString("    " + dim.Render(fmt.Sprintf("%-16s", e.name)) + dimmer.Render(e.shape) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("  ↑↓ select   enter view   q quit") + "\n")
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	name := m.entries[m.cursor].name
	b.WriteString("\n")
	b.WriteString("  " + cyan.Render(name) + "  " + dim.Render(m.entries[m.cursor].shape) + "\n\n")
	b.WriteString(m.renderTrace(name))
	b.WriteString("\n")
	mode := "separate chains"
	if m.combined {
		mode = "combined chains"
	}
	b.WriteString(dim.Render(fmt.Sprintf("  %s   ↑↓ variable   c combine   d divergences   esc back", mode)) + "\n")
	return b.String()
}

func (m Model) renderTrace(name string) string {
	divergences := plot.DivergencesBottom
	if !m.divergences {
		divergences = plot.DivergencesOff
	}
	fig, warnings, err := plot.Trace(m.data, plot.TraceOptions{
		VarNames:    []string{name},
		Combined:    m.combined,
		Divergences: divergences,
	})
	if err != nil {
		return red.Render(fmt.Sprintf("  %v", err)) + "\n"
	}
	fig.Width = m.width - 4
	if fig.Width < 60 {
		fig.Width = 60
	}
	fig.Height = m.height - 10
	if fig.Height < 10 {
		fig.Height = 10
	}
	var buf bytes.Buffer
	if err := plot.Render(fig, "term", &buf); err != nil {
		return red.Render(fmt.Sprintf("  %v", err)) + "\n"
	}
	out := buf.String()
	for _, w := range warnings {
		out += dim.Render("  note: "+w) + "\n"
	}
	return out
}
