package tui

import (
	"strings"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/output"
)

// Default result buffer bounds.
const (
	DefaultMaxLines   = 2000
	DefaultEvictLines = 500
)

// entry is one buffered result with its rendered row count.
type entry struct {
	line  model.ResultLine
	rows  int
	level output.Level
}

// row is one screen line of a buffered entry.
type row struct {
	text  string
	kind  model.LineKind
	level output.Level
}

// resultBuffer holds the lines of the current session. It is capped at
// maxLines entries; on overflow the oldest evict entries are dropped and
// the scroll offset moves up by the rows they occupied.
type resultBuffer struct {
	entries  []entry
	rows     int
	offset   int // first visible row
	height   int // visible rows
	follow   bool
	maxLines int
	evict    int
}

func newResultBuffer(maxLines, evict int) resultBuffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if evict <= 0 || evict > maxLines {
		evict = DefaultEvictLines
		if evict > maxLines {
			evict = maxLines
		}
	}
	return resultBuffer{maxLines: maxLines, evict: evict, height: 1}
}

func (b *resultBuffer) reset() {
	b.entries = nil
	b.rows = 0
	b.offset = 0
	b.follow = false
}

func (b *resultBuffer) append(l model.ResultLine) {
	e := entry{line: l, rows: strings.Count(l.Text, "\n") + 1}
	if l.Kind == model.LineText {
		e.level = output.DetectLevel(l.Text)
	}
	b.entries = append(b.entries, e)
	b.rows += e.rows

	if len(b.entries) > b.maxLines {
		removed := 0
		for _, old := range b.entries[:b.evict] {
			removed += old.rows
		}
		kept := make([]entry, len(b.entries)-b.evict, b.maxLines)
		copy(kept, b.entries[b.evict:])
		b.entries = kept
		b.rows -= removed
		b.offset -= removed
	}

	if b.follow {
		b.offset = b.maxOffset()
	}
	b.clamp()
}

func (b *resultBuffer) count() int { return len(b.entries) }

func (b *resultBuffer) maxOffset() int {
	if m := b.rows - b.height; m > 0 {
		return m
	}
	return 0
}

func (b *resultBuffer) clamp() {
	if b.offset > b.maxOffset() {
		b.offset = b.maxOffset()
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

func (b *resultBuffer) setHeight(h int) {
	if h < 1 {
		h = 1
	}
	b.height = h
	if b.follow {
		b.offset = b.maxOffset()
	}
	b.clamp()
}

// scroll moves the viewport by delta rows. Scrolling up stops following.
func (b *resultBuffer) scroll(delta int) {
	b.offset += delta
	if delta < 0 {
		b.follow = false
	}
	b.clamp()
}

func (b *resultBuffer) top() {
	b.offset = 0
	b.follow = false
}

// bottom jumps to the last row and keeps following new lines.
func (b *resultBuffer) bottom() {
	b.offset = b.maxOffset()
	b.follow = true
}

// visible returns the rows currently in the viewport.
func (b *resultBuffer) visible() []row {
	out := make([]row, 0, b.height)
	skip := b.offset
	for _, e := range b.entries {
		if skip >= e.rows {
			skip -= e.rows
			continue
		}
		parts := strings.Split(e.line.Text, "\n")
		for _, p := range parts[skip:] {
			out = append(out, row{text: p, kind: e.line.Kind, level: e.level})
			if len(out) == b.height {
				return out
			}
		}
		skip = 0
	}
	return out
}

// text returns the buffer as plain text, one entry per line.
func (b *resultBuffer) text() string {
	var sb strings.Builder
	for i, e := range b.entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.line.Text)
	}
	return sb.String()
}
