package tui

import tea "github.com/charmbracelet/bubbletea"

// labelWidth is the width of the filter field labels.
const labelWidth = 7

var fieldLabels = [fieldSearch]string{"Start:", "End:", "Query:"}

// timePresets maps the number keys to start expressions.
var timePresets = map[string]string{
	"1": "-5m",
	"2": "-15m",
	"3": "-1h",
	"4": "-24h",
}

// applyTimePreset sets the start field from a number key, clears the end
// field and moves to the query field.
func (m *Model) applyTimePreset(k string) tea.Cmd {
	start, ok := timePresets[k]
	if !ok {
		return nil
	}
	m.inputs[fieldStart].SetValue(start)
	m.inputs[fieldEnd].SetValue("")
	m.field = fieldQuery
	return m.setStatus("Start set to " + start)
}
