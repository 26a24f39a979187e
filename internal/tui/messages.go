package tui

import (
	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneActs Scene = iota
	SceneForm
	SceneResults
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneActs:
		return "Actes"
	case SceneForm:
		return "Saisie"
	case SceneResults:
		return "Décompte"
	case SceneHelp:
		return "Aide"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// RulebookLoadedMsg signals the rulebook has been loaded and bound
type RulebookLoadedMsg struct {
	Registry *acts.Registry
}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Act       domain.ActType
	Breakdown *domain.Breakdown
	Err       error
}
