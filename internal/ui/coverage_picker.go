package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
)

// Colleague is someone a conflicting task can be handed to.
type Colleague struct {
	ID   string
	Name string
}

type pickerKeys struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Clear, k.Confirm, k.Cancel}
}

func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Prev, k.Next, k.Clear}, {k.Confirm, k.Cancel}}
}

var defaultPickerKeys = pickerKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Next:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next colleague")),
	Prev:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "previous colleague")),
	Clear:   key.NewBinding(key.WithKeys("backspace", "x"), key.WithHelp("x", "unassign")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book leave")),
	Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
}

// CoveragePicker lets the user choose a colleague for each conflicting
// task. A row left unassigned stays with its owner.
type CoveragePicker struct {
	conflicts  []leave.Conflict
	colleagues []Colleague
	// choice holds an index into colleagues per conflict, -1 for none.
	choice    []int
	cursor    int
	keys      pickerKeys
	help      help.Model
	confirmed bool
	cancelled bool
}

// NewCoveragePicker builds a picker. preset maps target keys to colleague
// ids chosen earlier, for example from a previous edit.
func NewCoveragePicker(conflicts []leave.Conflict, colleagues []Colleague, preset map[string]string) CoveragePicker {
	choice := make([]int, len(conflicts))
	for i, c := range conflicts {
		choice[i] = -1
		if id, ok := preset[c.Target.Key()]; ok {
			for j, col := range colleagues {
				if col.ID == id {
					choice[i] = j
				}
			}
		}
	}
	return CoveragePicker{
		conflicts:  conflicts,
		colleagues: colleagues,
		choice:     choice,
		keys:       defaultPickerKeys,
		help:       help.New(),
	}
}

func (m CoveragePicker) Init() tea.Cmd {
	return nil
}

func (m CoveragePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.conflicts)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Next):
			m.cycle(1)
		case key.Matches(msg, m.keys.Prev):
			m.cycle(-1)
		case key.Matches(msg, m.keys.Clear):
			if len(m.choice) > 0 {
				m.choice[m.cursor] = -1
			}
		}
	}
	return m, nil
}

// cycle steps the current row through none, colleague 0 .. n-1, none.
func (m *CoveragePicker) cycle(step int) {
	if len(m.conflicts) == 0 || len(m.colleagues) == 0 {
		return
	}
	n := len(m.colleagues) + 1
	pos := m.choice[m.cursor] + 1
	pos = ((pos+step)%n + n) % n
	m.choice[m.cursor] = pos - 1
}

func (m CoveragePicker) View() string {
	var b strings.Builder
	b.WriteString("\n" + StyleSelectTitle.Render(fmt.Sprintf("Coverage for %d conflicting task(s)", len(m.conflicts))) + "\n\n")

	if len(m.conflicts) == 0 {
		b.WriteString(StyleSuccess.Render("  No conflicts. Enter books the leave.") + "\n")
	}
	for i, c := range m.conflicts {
		cursor := "  "
		style := StyleSelectNormal
		if i == m.cursor {
			cursor = "▶ "
			style = StyleSelectActive
		}
		title := style.Render(fmt.Sprintf("%-28s", Truncate(c.Task.Title, 28)))
		due := StyleSubtle.Render(c.DueDate.String())
		marker := "     "
		if c.Virtual() {
			marker = StyleVirtual.Render(" next")
		}
		assignee := StyleSelectDim.Render("keep")
		if j := m.choice[i]; j >= 0 {
			assignee = StyleSelectBadge.Render("→ " + m.colleagues[j].Name)
		}
		fmt.Fprintf(&b, "%s%s %s%s  %s\n", cursor, title, due, marker, assignee)
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

// Decisions returns one decision per assigned row, in row order.
func (m CoveragePicker) Decisions() []leave.Decision {
	var out []leave.Decision
	for i, j := range m.choice {
		if j < 0 {
			continue
		}
		out = append(out, leave.Decision{Target: m.conflicts[i].Target, AssigneeID: m.colleagues[j].ID})
	}
	return out
}

// Confirmed reports whether the user accepted the assignments.
func (m CoveragePicker) Confirmed() bool {
	return m.confirmed && !m.cancelled
}

// RunCoveragePicker runs the picker full screen and returns the chosen
// decisions. It fails when the user cancels.
func RunCoveragePicker(conflicts []leave.Conflict, colleagues []Colleague, preset map[string]string) ([]leave.Decision, error) {
	p := tea.NewProgram(NewCoveragePicker(conflicts, colleagues, preset))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run coverage picker: %w", err)
	}
	picker := final.(CoveragePicker)
	if !picker.Confirmed() {
		return nil, fmt.Errorf("leave booking cancelled")
	}
	return picker.Decisions(), nil
}
