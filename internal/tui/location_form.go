package tui

import "github.com/charmbracelet/bubbles/textinput"

// locationFormModel collects the ids the locationToken exchange needs. The
// company id input is prefilled from the agency bundle when present.
type locationFormModel struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newLocationFormModel(locationID, companyID string) locationFormModel {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[0].SetValue(locationID)
	inputs[1].SetValue(companyID)
	inputs[0].Focus()

	return locationFormModel{inputs: inputs}
}

func (m locationFormModel) locationID() string { return m.inputs[0].Value() }
func (m locationFormModel) companyID() string  { return m.inputs[1].Value() }

func (m locationFormModel) View() string {
	out := titleStyle.Render("Location token") + "\n\n"
	out += "Location ID: [" + m.inputs[0].View() + "]\n"
	out += "Company ID:  [" + m.inputs[1].View() + "]\n\n"
	out += helpStyle.Render("esc skip  tab next field  enter mint token")
	return out
}
