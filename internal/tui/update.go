package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case RulebookLoadedMsg:
		m.setRegistry(msg.Registry)
		return m, nil

	case CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			// stay on the form so the field can be fixed
			m.formErr = msg.Err
			return m, nil
		}
		m.formErr = nil
		m.result = msg.Breakdown
		m.previousScene = m.currentScene
		m.currentScene = SceneResults
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Force) {
		return m, tea.Quit
	}

	// A fatal error screen only offers quitting
	if m.err != nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.currentScene {
	case SceneActs:
		return m.updateActs(msg)
	case SceneForm:
		return m.updateForm(msg)
	case SceneResults, SceneHelp:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			return m, navigate(SceneHelp)
		case key.Matches(msg, m.keys.Back):
			if m.currentScene == SceneResults {
				return m, navigate(SceneForm)
			}
			return m, navigate(m.previousScene)
		}
	}
	return m, nil
}

func (m Model) updateActs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.calculators)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.calculators) == 0 {
			return m, nil
		}
		cmd := m.openForm(m.calculators[m.cursor])
		m.previousScene = SceneActs
		m.currentScene = SceneForm
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, navigate(SceneActs)
	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.Select):
		m.loading = true
		m.loadingMessage = "Calcul en cours..."
		return m, calculateCmd(m.registry, m.selected.Act, m.params())
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene forwards other messages to the focused input
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene != SceneForm || len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}
