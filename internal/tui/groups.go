package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// groupRows is the number of visible rows in the groups list.
const groupRows = 5

// filterGroups returns the groups fuzzy-matching query, case-insensitively,
// in their original order.
func filterGroups(all []string, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	lower := make([]string, len(all))
	for i, g := range all {
		lower[i] = strings.ToLower(g)
	}
	matches := fuzzy.Find(strings.ToLower(query), lower)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, all[match.Index])
	}
	return out
}

func (m *Model) applyGroupFilter() {
	m.groups = filterGroups(m.allGroups, m.groupInput.Value())
	m.groupCursor = 0
	m.groupOffset = 0
}

// selectedGroup returns the group under the cursor. ok is false when the
// list is empty.
func (m Model) selectedGroup() (string, bool) {
	if m.groupCursor < 0 || m.groupCursor >= len(m.groups) {
		return "", false
	}
	return m.groups[m.groupCursor], true
}

// selectGroup moves the cursor to name if it is listed.
func (m *Model) selectGroup(name string) bool {
	for i, g := range m.groups {
		if g == name {
			m.groupCursor = i
			m.clampGroups()
			return true
		}
	}
	return false
}

func (m *Model) moveGroupCursor(delta int) {
	m.groupCursor += delta
	m.clampGroups()
}

// clampGroups keeps the cursor inside the list and visible in the viewport.
func (m *Model) clampGroups() {
	if m.groupCursor >= len(m.groups) {
		m.groupCursor = len(m.groups) - 1
	}
	if m.groupCursor < 0 {
		m.groupCursor = 0
	}
	if m.groupCursor < m.groupOffset {
		m.groupOffset = m.groupCursor
	}
	if m.groupCursor >= m.groupOffset+groupRows {
		m.groupOffset = m.groupCursor - groupRows + 1
	}
	if m.groupOffset < 0 {
		m.groupOffset = 0
	}
}

func (m Model) updateGroupSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.groupInput.SetValue("")
		m.groupInput.Blur()
		m.groupSearching = false
		m.applyGroupFilter()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.groupInput.Blur()
		m.groupSearching = false
		return m, nil
	case msg.Type == tea.KeyUp:
		m.moveGroupCursor(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.moveGroupCursor(1)
		return m, nil
	}

	before := m.groupInput.Value()
	var cmd tea.Cmd
	m.groupInput, cmd = m.groupInput.Update(msg)
	if m.groupInput.Value() != before {
		m.applyGroupFilter()
	}
	return m, cmd
}
