package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
)

// PromptModelSelection prompts the user to select a model for the given provider.
// Returns the selected model ID, or an error if cancelled.
func PromptModelSelection(provider string) (string, error) {
	models := llm.ModelsForProvider(provider)
	if len(models) == 0 {
		return llm.DefaultModelForProvider(provider), nil
	}

	p := tea.NewProgram(newModelSelect(provider, models))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running model selection: %w", err)
	}

	result := finalModel.(modelSelectModel)
	if result.quit {
		return "", fmt.Errorf("model selection cancelled")
	}
	return result.selectedID, nil
}

type modelSelectModel struct {
	provider   string
	models     []llm.Model
	cursor     int
	selectedID string
	quit       bool
}

func newModelSelect(provider string, models []llm.Model) modelSelectModel {
	return modelSelectModel{provider: provider, models: models}
}

func (m modelSelectModel) Init() tea.Cmd {
	return nil
}

func (m modelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.models)-1 {
				m.cursor++
			}
		case "enter":
			m.selectedID = m.models[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m modelSelectModel) View() string {
	s := "\n" + StyleSelectTitle.Render(fmt.Sprintf("Select Model for %s", m.provider)) + "\n\n"

	for i, model := range m.models {
		cursor := "  "
		style := StyleSelectNormal
		if m.cursor == i {
			cursor = "▶ "
			style = StyleSelectActive
		}

		line := cursor + style.Render(fmt.Sprintf("%-24s", model.ID))
		if model.IsDefault {
			line += StyleSelectBadge.Render(" (default)")
		}
		if model.Images {
			line += StyleSelectDim.Render(" images")
		}
		s += line + "\n"
	}

	s += "\n" + StyleSelectDim.Render("↑/↓ navigate • enter select • esc cancel") + "\n"
	return s
}
