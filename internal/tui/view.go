package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/rgehrsitz/notarycalc/internal/output"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	if m.loading && m.registry == nil {
		return m.renderLoading()
	}

	var content string
	switch m.currentScene {
	case SceneActs:
		content = m.renderActs()
	case SceneForm:
		content = m.renderForm()
	case SceneResults:
		content = m.renderResults()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // Title (2) + status (1) + padding (1)

	contentContainer := lipgloss.NewStyle().
		Height(max(contentHeight, 0)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("Notarycalc - Tarif notarial")

	crumb := m.currentScene.String()
	if m.selected != nil && m.currentScene != SceneActs {
		crumb = fmt.Sprintf("%s / %s", crumb, m.selected.Label)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(crumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	var shortcuts []string
	for _, b := range m.keys.shortcuts(m.currentScene) {
		h := b.Help()
		shortcuts = append(shortcuts, formatShortcut(h.Key, h.Desc))
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.registry != nil {
		meta := m.registry.Rulebook().Metadata
		label := SubtitleStyle.Render(fmt.Sprintf("%s %s", meta.Jurisdiction, meta.Version))
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(label) - 2
		statusText += strings.Repeat(" ", max(0, width)) + label
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders a loading message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

// renderError renders a fatal error
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress q to quit.", m.err.Error()),
	)
	return m.renderApp(content)
}

// renderActs renders the act picker
func (m Model) renderActs() string {
	var b strings.Builder
	for i, c := range m.calculators {
		line := fmt.Sprintf("%-28s %s", c.Label, c.Act)
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderForm renders the input fields of the selected act
func (m Model) renderForm() string {
	if m.selected == nil {
		return BorderStyle.Render("Aucun acte sélectionné")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.selected.Label))
	b.WriteString("\n\n")

	if len(m.inputs) == 0 {
		b.WriteString(FieldHintStyle.Render("Aucune saisie requise. Entrée pour calculer."))
		b.WriteString("\n")
	}
	for i, f := range m.selected.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		style := UnselectedItemStyle
		if i == m.focus {
			style = SelectedItemStyle
		}
		b.WriteString(style.Render(FieldLabelStyle.Render(label)))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.formErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(formError(m.formErr)))
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString("\n")
		b.WriteString(FieldHintStyle.Render(m.loadingMessage))
	}

	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func formError(err error) string {
	if ce, ok := domain.AsCalcError(err); ok && ce.Field != "" {
		return fmt.Sprintf("%s: %s", ce.Field, ce.Message)
	}
	return err.Error()
}

// renderResults renders the last breakdown through the console formatter
func (m Model) renderResults() string {
	if m.result == nil {
		return BorderStyle.Render("Aucun décompte")
	}

	report := &output.Report{Breakdown: m.result}
	if m.registry != nil {
		rb := m.registry.Rulebook()
		report.Currency = rb.Currency
		report.RoundingPlaces = rb.RoundingPlaces
	}

	data, err := output.ConsoleFormatter{}.Format(report)
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}
	return BorderStyle.Render(strings.TrimRight(string(data), "\n"))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
NOTARYCALC - Calcul des frais d'acte

ACTES:
  ↑/↓ or k/j   Move through the act catalog
  Enter        Open the input form

SAISIE:
  Tab          Next field
  Shift+Tab    Previous field
  Enter        Calculate
  Esc          Back to the catalog

DÉCOMPTE:
  Esc          Back to the form

  Lines marked * are débours paid on to third parties.
  ?            Show this help
  q/Ctrl+C     Quit
`
	return BorderStyle.Render(helpText)
}
