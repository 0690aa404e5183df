package tui

import "github.com/charmbracelet/bubbles/spinner"

type waitingModel struct {
	spinner spinner.Model
	label   string
}

func newWaitingModel(label string) waitingModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return waitingModel{spinner: s, label: label}
}

func (m waitingModel) View() string {
	return m.spinner.View() + " " + m.label
}
