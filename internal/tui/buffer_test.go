package tui

import (
	"fmt"
	"testing"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/output"
)

func textLine(s string) model.ResultLine {
	return model.ResultLine{Kind: model.LineText, Text: s}
}

func filledBuffer(maxLines, evict, height, n int) resultBuffer {
	b := newResultBuffer(maxLines, evict)
	b.setHeight(height)
	for i := 0; i < n; i++ {
		b.append(textLine(fmt.Sprint(i)))
	}
	return b
}

func TestNewResultBufferDefaults(t *testing.T) {
	tests := []struct {
		maxLines, evict   int
		wantMax, wantEvic int
	}{
		{0, 0, DefaultMaxLines, DefaultEvictLines},
		{100, 10, 100, 10},
		{100, 0, 100, 100},
		{10, 20, 10, 10},
	}
	for _, tt := range tests {
		b := newResultBuffer(tt.maxLines, tt.evict)
		if b.maxLines != tt.wantMax || b.evict != tt.wantEvic {
			t.Errorf("newResultBuffer(%d, %d) = max %d evict %d, want %d %d",
				tt.maxLines, tt.evict, b.maxLines, b.evict, tt.wantMax, tt.wantEvic)
		}
	}
}

func TestResultBufferCountsRows(t *testing.T) {
	b := newResultBuffer(10, 5)
	b.append(textLine("one"))
	b.append(textLine("{\n  \"a\": 1\n}"))
	if b.count() != 2 {
		t.Errorf("count = %d, want 2", b.count())
	}
	if b.rows != 4 {
		t.Errorf("rows = %d, want 4", b.rows)
	}
}

func TestResultBufferEviction(t *testing.T) {
	tests := []struct {
		name       string
		offset     int
		wantOffset int
	}{
		{name: "offset shifts by removed rows", offset: 5, wantOffset: 1},
		{name: "offset clamps at zero", offset: 2, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := filledBuffer(10, 4, 3, 10)
			b.scroll(tt.offset)
			b.append(textLine("10"))

			if b.count() != 7 {
				t.Fatalf("count = %d, want 7", b.count())
			}
			if b.rows != 7 {
				t.Errorf("rows = %d, want 7", b.rows)
			}
			if b.offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", b.offset, tt.wantOffset)
			}
			if first := b.entries[0].line.Text; first != "4" {
				t.Errorf("oldest entry = %q, want 4", first)
			}
		})
	}
}

func TestResultBufferEvictionMultiLine(t *testing.T) {
	b := newResultBuffer(3, 1)
	b.setHeight(2)
	b.append(textLine("a\nb\nc"))
	b.append(textLine("d"))
	b.append(textLine("e"))
	b.scroll(3)
	b.append(textLine("f"))

	if b.rows != 3 {
		t.Errorf("rows = %d, want 3", b.rows)
	}
	if b.offset != 0 {
		t.Errorf("offset = %d, want 0", b.offset)
	}
}

func TestResultBufferFollow(t *testing.T) {
	b := filledBuffer(100, 10, 3, 5)
	b.bottom()
	if b.offset != 2 {
		t.Fatalf("offset = %d, want 2", b.offset)
	}
	b.append(textLine("new"))
	if b.offset != 3 {
		t.Errorf("following offset = %d, want 3", b.offset)
	}

	b.scroll(-1)
	if b.follow {
		t.Error("scrolling up should stop following")
	}
	b.append(textLine("newer"))
	if b.offset != 2 {
		t.Errorf("offset = %d, want 2", b.offset)
	}
}

func TestResultBufferScrollClamps(t *testing.T) {
	b := filledBuffer(100, 10, 3, 5)
	b.scroll(100)
	if b.offset != 2 {
		t.Errorf("offset = %d, want 2", b.offset)
	}
	b.scroll(-100)
	if b.offset != 0 {
		t.Errorf("offset = %d, want 0", b.offset)
	}
}

func TestResultBufferVisible(t *testing.T) {
	b := newResultBuffer(100, 10)
	b.setHeight(2)
	b.append(textLine("a"))
	b.append(textLine("b1\nb2\nb3"))
	b.append(model.ResultLine{Kind: model.LineText, Text: "ERROR c"})
	b.scroll(2)

	got := b.visible()
	if len(got) != 2 || got[0].text != "b2" || got[1].text != "b3" {
		t.Fatalf("visible = %+v, want b2 b3", got)
	}

	b.scroll(10)
	got = b.visible()
	if got[1].text != "ERROR c" || got[1].level != output.LevelError {
		t.Errorf("last row = %+v, want ERROR c at error level", got[1])
	}
}

func TestResultBufferTextAndReset(t *testing.T) {
	b := filledBuffer(100, 10, 3, 3)
	if got := b.text(); got != "0\n1\n2" {
		t.Errorf("text = %q", got)
	}
	b.reset()
	if b.count() != 0 || b.rows != 0 || b.offset != 0 || b.text() != "" {
		t.Errorf("reset left %+v", b)
	}
}
