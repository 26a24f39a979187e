package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/config"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Rulebook and bound calculators
	rulebookPath string
	registry     *acts.Registry
	calculators  []*acts.Calculator

	// Act picker
	cursor int

	// Input form of the selected act
	selected *acts.Calculator
	inputs   []textinput.Model
	focus    int
	formErr  error

	// Last breakdown
	result *domain.Breakdown

	keys keyMap

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. An empty path loads the embedded rulebook.
func NewModel(rulebookPath string) Model {
	return Model{
		currentScene:   SceneActs,
		rulebookPath:   rulebookPath,
		keys:           defaultKeyMap(),
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Chargement du tarif...",
	}
}

// newModelWithRegistry creates a model over an already bound registry
func newModelWithRegistry(registry *acts.Registry) Model {
	m := NewModel("")
	m.setRegistry(registry)
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.registry != nil {
		return nil
	}
	return loadRulebookCmd(m.rulebookPath)
}

// loadRulebookCmd returns a command that loads and binds the rulebook
func loadRulebookCmd(path string) tea.Cmd {
	return func() tea.Msg {
		rb, err := config.NewRulebookLoader().Load(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		registry, err := acts.NewRegistry(rb)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return RulebookLoadedMsg{Registry: registry}
	}
}

// calculateCmd returns a command that runs one act calculation
func calculateCmd(registry *acts.Registry, act domain.ActType, params map[string]string) tea.Cmd {
	return func() tea.Msg {
		b, err := registry.CalculateParams(act, params)
		return CalculationCompleteMsg{Act: act, Breakdown: b, Err: err}
	}
}

func (m *Model) setRegistry(registry *acts.Registry) {
	m.registry = registry
	m.calculators = registry.Acts()
	m.loading = false
	m.cursor = 0
}

// openForm builds one text input per field of c, defaults prefilled
func (m *Model) openForm(c *acts.Calculator) tea.Cmd {
	m.selected = c
	m.formErr = nil
	m.focus = 0
	m.inputs = make([]textinput.Model, len(c.Fields))

	for i, f := range c.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 24
		ti.Placeholder = placeholder(f)
		ti.SetValue(f.Default)
		m.inputs[i] = ti
	}
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[0].Focus()
}

func placeholder(f acts.FieldSpec) string {
	switch f.Kind {
	case acts.FieldDate:
		return "AAAA-MM-JJ"
	case acts.FieldFlag:
		return "true / false"
	case acts.FieldChoice:
		return strings.Join(f.Choices, " / ")
	case acts.FieldCount:
		return "0"
	default:
		return "montant"
	}
}

// params collects the non-empty form values
func (m Model) params() map[string]string {
	params := make(map[string]string)
	for i, f := range m.selected.Fields {
		if v := strings.TrimSpace(m.inputs[i].Value()); v != "" {
			params[f.Key] = v
		}
	}
	return params
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}
