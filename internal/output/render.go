package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/psacc/lumberjack/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// RenderGroups writes a list of log groups in the given format.
func RenderGroups(w io.Writer, groups []string, format Format) {
	switch format {
	case FormatJSON:
		if groups == nil {
			groups = []string{}
		}
		renderJSON(w, groups)
	default:
		renderGroupTable(w, groups)
	}
}

// RenderPresets writes saved presets in the given format.
func RenderPresets(w io.Writer, presets []model.Preset, format Format) {
	switch format {
	case FormatJSON:
		if presets == nil {
			presets = []model.Preset{}
		}
		renderJSON(w, presets)
	default:
		renderPresetTable(w, presets, time.Now())
	}
}

func renderGroupTable(w io.Writer, groups []string) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No log groups found.")
		return
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "GROUP"})
	for i, g := range groups {
		tw.AppendRow(table.Row{i + 1, g})
	}
	tw.Render()
}

func renderPresetTable(w io.Writer, presets []model.Preset, now time.Time) {
	if len(presets) == 0 {
		fmt.Fprintln(w, "No saved presets.")
		return
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"NAME", "GROUP", "START", "END", "QUERY", "UPDATED"})
	for _, p := range presets {
		end := p.End
		if end == "" {
			end = "now"
		}
		updated := "-"
		if !p.UpdatedAt.IsZero() {
			updated = FormatDuration(now.Sub(p.UpdatedAt)) + " ago"
		}
		tw.AppendRow(table.Row{
			p.Name,
			truncate(p.Group, 40),
			p.Start,
			end,
			truncate(p.Query, 48),
			updated,
		})
	}
	tw.Render()
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	return tw
}

func renderJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// truncate shortens s to maxLen runes, ending in "..." when there is room.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		if maxLen < 0 {
			maxLen = 0
		}
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatDuration returns a human-readable duration like "2h", "3d", "1w".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	if hours < 1 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	weeks := days / 7
	return fmt.Sprintf("%dw", weeks)
}
