package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/model"
)

type (
	presetsMsg struct {
		presets []model.Preset
		err     error
	}
	presetSavedMsg struct {
		name string
		err  error
	}
	presetDeletedMsg struct {
		name    string
		deleted bool
		err     error
	}
)

func (m Model) openSavePopup() (tea.Model, tea.Cmd) {
	if m.presets == nil {
		cmd := m.setStatus("Presets unavailable")
		return m, cmd
	}
	m.popup = popupSave
	m.saveInput.SetValue("")
	cmd := m.saveInput.Focus()
	return m, cmd
}

func (m *Model) openLoadPopup() tea.Cmd {
	if m.presets == nil {
		return m.setStatus("Presets unavailable")
	}
	store := m.presets
	return func() tea.Msg {
		presets, err := store.List(context.Background())
		return presetsMsg{presets: presets, err: err}
	}
}

// currentPreset captures the form and selected group under name.
func (m Model) currentPreset(name string) model.Preset {
	group, _ := m.selectedGroup()
	return model.Preset{
		Name:  name,
		Group: group,
		Start: strings.TrimSpace(m.inputs[fieldStart].Value()),
		End:   strings.TrimSpace(m.inputs[fieldEnd].Value()),
		Query: strings.TrimSpace(m.inputs[fieldQuery].Value()),
	}
}

func (m Model) updateSavePopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		name := strings.TrimSpace(m.saveInput.Value())
		if name == "" {
			cmd := m.setStatus("Preset name required")
			return m, cmd
		}
		p := m.currentPreset(name)
		store := m.presets
		m.closePopup()
		return m, func() tea.Msg {
			return presetSavedMsg{name: p.Name, err: store.Save(context.Background(), p)}
		}
	}
	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

func (m Model) updateLoadPopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.presetCursor > 0 {
			m.presetCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.presetCursor < len(m.presetList)-1 {
			m.presetCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if len(m.presetList) == 0 {
			m.closePopup()
			return m, nil
		}
		p := m.presetList[m.presetCursor]
		m.closePopup()
		cmd := m.applyPreset(p)
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		if len(m.presetList) == 0 {
			return m, nil
		}
		name := m.presetList[m.presetCursor].Name
		store := m.presets
		return m, func() tea.Msg {
			ok, err := store.Delete(context.Background(), name)
			return presetDeletedMsg{name: name, deleted: ok, err: err}
		}
	}
	return m, nil
}

func (m *Model) closePopup() {
	m.popup = popupNone
	m.saveInput.Blur()
}

// applyPreset restores the form from p and re-selects its group when it is
// still listed.
func (m *Model) applyPreset(p model.Preset) tea.Cmd {
	m.inputs[fieldStart].SetValue(p.Start)
	m.inputs[fieldEnd].SetValue(p.End)
	m.inputs[fieldQuery].SetValue(p.Query)
	m.focus = paneFilter
	m.field = fieldSearch

	if p.Group != "" {
		m.groupInput.SetValue("")
		m.applyGroupFilter()
		if !m.selectGroup(p.Group) {
			return m.setStatus(fmt.Sprintf("Loaded preset %q (group %s not found)", p.Name, p.Group))
		}
	}
	return m.setStatus(fmt.Sprintf("Loaded preset %q", p.Name))
}

func (m Model) updatePresetResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case presetsMsg:
		if msg.err != nil {
			m.logger.Warn("list presets failed", logging.Error(msg.err))
			cmd := m.setStatus("Failed to load presets: " + msg.err.Error())
			return m, cmd
		}
		if len(msg.presets) == 0 {
			cmd := m.setStatus("No saved presets")
			return m, cmd
		}
		m.presetList = msg.presets
		m.presetCursor = 0
		m.popup = popupLoad
		return m, nil

	case presetSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save preset failed", logging.Error(msg.err))
			cmd := m.setStatus("Save failed: " + msg.err.Error())
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Saved preset %q", msg.name))
		return m, cmd

	case presetDeletedMsg:
		if msg.err != nil {
			m.logger.Warn("delete preset failed", logging.Error(msg.err))
			cmd := m.setStatus("Delete failed: " + msg.err.Error())
			return m, cmd
		}
		for i, p := range m.presetList {
			if p.Name == msg.name {
				m.presetList = append(m.presetList[:i:i], m.presetList[i+1:]...)
				break
			}
		}
		if m.presetCursor >= len(m.presetList) {
			m.presetCursor = len(m.presetList) - 1
		}
		if m.presetCursor < 0 {
			m.presetCursor = 0
		}
		if len(m.presetList) == 0 {
			m.closePopup()
		}
		if !msg.deleted {
			cmd := m.setStatus(fmt.Sprintf("Preset %q not found", msg.name))
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Deleted preset %q", msg.name))
		return m, cmd
	}
	return m, nil
}
