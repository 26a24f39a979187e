package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/notarycalc/internal/tui"
)

func main() {
	// Optional rulebook path; the embedded rulebook otherwise
	rulebookPath := ""
	if len(os.Args) > 1 {
		rulebookPath = os.Args[1]
		if _, err := os.Stat(rulebookPath); os.IsNotExist(err) {
			fmt.Printf("Error: Rulebook not found: %s\n", rulebookPath)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(
		tui.NewModel(rulebookPath),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
