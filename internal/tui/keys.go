package tui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(canSpawn bool) string {
	s := "space pause  n step  r reset"
	if canSpawn {
		s += "  s spawn  click spawn"
	}
	s += "  q quit"
	return s
}
