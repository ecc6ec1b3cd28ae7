package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/output"
)

// Lines outside the results pane: header, top panes with borders, results
// border, status, help.
const chromeLines = 1 + (groupRows + 1 + 2) + 2 + 1 + 1

// Styles.
var (
	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleTailing   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	styleSelected  = lipgloss.NewStyle().Bold(true).Reverse(true)
	styleFaint     = lipgloss.NewStyle().Faint(true)
	styleMessage   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	styleTimestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	styleHeaderRow = lipgloss.NewStyle().Bold(true)
	styleErrorRow  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	styleThumb     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleTrack     = lipgloss.NewStyle().Faint(true)

	levelStyles = map[output.Level]lipgloss.Style{
		output.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		output.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		output.LevelDebug: lipgloss.NewStyle().Faint(true),
	}

	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	focusedColor = lipgloss.Color("4")
)

var timestampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})`)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')

	gw, fw := m.topWidths()
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane(paneGroups, gw).Render(m.groupsView(gw)),
		m.pane(paneFilter, fw).Render(m.filterView(fw)),
	)
	b.WriteString(top)
	b.WriteByte('\n')

	var body string
	switch m.popup {
	case popupSave:
		body = m.savePopupView()
	case popupLoad:
		body = m.loadPopupView()
	default:
		body = m.resultsView()
	}
	b.WriteString(m.pane(paneResults, m.width-2).Height(m.results.height).Render(body))
	b.WriteByte('\n')

	b.WriteString(styleMessage.Render(m.status))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	parts := []string{styleTitle.Render(m.title)}
	if m.tail {
		parts = append(parts, styleTailing.Render("[Tailing]"))
	}
	if m.searching {
		parts = append(parts, m.spinner.View()+" searching")
	}
	return strings.Join(parts, " ")
}

// pane returns the border style for p with inner width w.
func (m Model) pane(p pane, w int) lipgloss.Style {
	s := paneStyle.Width(w)
	if m.focus == p && m.popup == popupNone {
		s = s.BorderForeground(focusedColor)
	}
	return s
}

// topWidths splits the terminal width between the groups and filter panes,
// returning inner widths.
func (m Model) topWidths() (groups, filter int) {
	groups = m.width*2/5 - 2
	if groups < 12 {
		groups = 12
	}
	filter = m.width - groups - 4
	if filter < labelWidth+8 {
		filter = labelWidth + 8
	}
	return groups, filter
}

func (m Model) resultsHeight() int {
	h := m.height - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) groupsView(width int) string {
	var b strings.Builder
	switch {
	case m.groupSearching || m.groupInput.Value() != "":
		b.WriteString("/ " + m.groupInput.View())
	case !m.groupsLoaded:
		b.WriteString(styleFaint.Render("loading log groups..."))
	default:
		b.WriteString(styleFaint.Render(fmt.Sprintf("/ to search (%d groups)", len(m.allGroups))))
	}

	if len(m.groups) == 0 {
		if m.groupsLoaded {
			b.WriteString("\n" + styleFaint.Render("(no matches)"))
		}
		return b.String()
	}

	end := m.groupOffset + groupRows
	if end > len(m.groups) {
		end = len(m.groups)
	}
	for i := m.groupOffset; i < end; i++ {
		row := truncatePad(m.groups[i], width)
		if i == m.groupCursor {
			if m.focus == paneGroups {
				row = styleSelected.Render(row)
			} else {
				row = styleTitle.Render(row)
			}
		}
		b.WriteString("\n" + row)
	}
	return b.String()
}

func (m Model) filterView(width int) string {
	rows := make([]string, 0, numFields)
	for i, in := range m.inputs {
		marker := "  "
		if m.focus == paneFilter && m.field == field(i) {
			marker = "> "
		}
		label := fmt.Sprintf("%-*s", labelWidth, fieldLabels[i])
		rows = append(rows, marker+label+in.View())
	}
	button := "[ Search ]"
	if m.focus == paneFilter && m.field == fieldSearch {
		button = styleSelected.Render(button)
	}
	rows = append(rows, "  "+button)
	return strings.Join(rows, "\n")
}

func (m Model) resultsView() string {
	width := m.width - 3 // border plus scrollbar
	if width < 1 {
		width = 1
	}
	rows := m.results.visible()
	thumbStart, thumbLen := scrollbar(m.results.rows, m.results.height, m.results.offset)

	lines := make([]string, m.results.height)
	for i := range lines {
		text := strings.Repeat(" ", width)
		if i < len(rows) {
			text = renderRow(rows[i], width)
		}
		bar := " "
		if thumbLen > 0 {
			bar = styleTrack.Render("│")
			if i >= thumbStart && i < thumbStart+thumbLen {
				bar = styleThumb.Render("█")
			}
		}
		lines[i] = text + bar
	}
	return strings.Join(lines, "\n")
}

// renderRow pads r to width and colours it by kind and level. A leading
// timestamp is highlighted separately.
func renderRow(r row, width int) string {
	plain := truncatePad(strings.ReplaceAll(r.text, "\t", "    "), width)
	switch r.kind {
	case model.LineHeader:
		return styleHeaderRow.Render(plain)
	case model.LineInfo:
		return styleFaint.Render(plain)
	case model.LineError:
		return styleErrorRow.Render(plain)
	}

	style, ok := levelStyles[r.level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	if loc := timestampPrefix.FindStringIndex(plain); loc != nil {
		return styleTimestamp.Render(plain[:loc[1]]) + style.Render(plain[loc[1]:])
	}
	return style.Render(plain)
}

// scrollbar returns the first row and length of the thumb for a viewport
// of height rows at offset into total rows. Length is 0 when everything
// fits.
func scrollbar(total, height, offset int) (start, length int) {
	if height <= 0 || total <= height {
		return 0, 0
	}
	length = height * height / total
	if length < 1 {
		length = 1
	}
	start = offset * (height - length) / (total - height)
	if start+length > height {
		start = height - length
	}
	if start < 0 {
		start = 0
	}
	return start, length
}

func (m Model) savePopupView() string {
	group, _ := m.selectedGroup()
	return fmt.Sprintf("Save preset as: %s\n\n%s",
		m.saveInput.View(),
		styleFaint.Render(fmt.Sprintf("group %s  ·  enter: save  esc: cancel", group)))
}

func (m Model) loadPopupView() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Load preset"))
	width := m.width - 3
	for i, p := range m.presetList {
		end := p.End
		if end == "" {
			end = "now"
		}
		row := truncatePad(fmt.Sprintf("%-20s %-30s %s..%s %s", p.Name, p.Group, p.Start, end, p.Query), width)
		if i == m.presetCursor {
			row = styleSelected.Render(row)
		}
		b.WriteString("\n" + row)
	}
	b.WriteString("\n\n" + styleFaint.Render("enter: load  d: delete  esc: close"))
	return b.String()
}

// truncatePad truncates s to maxLen runes (with "..." suffix) and pads with
// spaces.
func truncatePad(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > maxLen {
		if maxLen > 3 {
			r = append(r[:maxLen-3], '.', '.', '.')
		} else {
			r = r[:maxLen]
		}
	}
	return string(r) + strings.Repeat(" ", maxLen-len(r))
}
