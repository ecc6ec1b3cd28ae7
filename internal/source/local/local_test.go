package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/psacc/lumberjack/internal/source"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func ms(s string) int64 {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.log", "x\n")

	tests := []struct {
		name string
		dir  string
	}{
		{name: "empty dir", dir: ""},
		{name: "missing dir", dir: filepath.Join(dir, "nope")},
		{name: "regular file", dir: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), source.Options{Dir: tt.dir})
			var ie *source.InitError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *source.InitError, got %v", err)
			}
			if ie.Backend != Name {
				t.Errorf("Backend = %q, want %q", ie.Backend, Name)
			}
		})
	}
}

func TestListGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api.log", "")
	writeFile(t, dir, "ecs/worker.jsonl", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "ecs/README.md", "")

	store, err := Open(context.Background(), source.Options{Dir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := store.ListGroups(context.Background())
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	want := []string{"api.log", "ecs/worker.jsonl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListGroups() = %v, want %v", got, want)
	}
}

func TestQueryEventsWindowAndTimestamps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.log", strings.Join([]string{
		"2025-12-11T09:00:00Z too early",
		"2025-12-11T10:00:00.500Z INFO started",
		"",
		`{"ts":"2025-12-11T10:01:00Z","level":"error","msg":"boom"}`,
		`{"time":1765447320,"level":"info"}`,
		"2025-12-11T11:00:00Z too late",
	}, "\n"))

	store := New(dir, 0)
	page, err := store.QueryEvents(context.Background(), source.Query{
		Group:   "app.log",
		StartMs: ms("2025-12-11T10:00:00Z"),
		EndMs:   ms("2025-12-11T10:30:00Z"),
	})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if page.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty", page.NextCursor)
	}
	if len(page.Events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(page.Events), page.Events)
	}
	if page.Events[0].TimestampMs != ms("2025-12-11T10:00:00.5Z") || page.Events[0].Message != "INFO started" {
		t.Errorf("event 0 = %+v", page.Events[0])
	}
	if page.Events[1].TimestampMs != ms("2025-12-11T10:01:00Z") {
		t.Errorf("event 1 timestamp = %d", page.Events[1].TimestampMs)
	}
	if page.Events[2].TimestampMs != ms("2025-12-11T10:02:00Z") {
		t.Errorf("event 2 timestamp = %d (epoch seconds)", page.Events[2].TimestampMs)
	}
}

func TestQueryEventsFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.log", "no timestamp here\n")
	mtime := time.Date(2025, 12, 11, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	page, err := New(dir, 0).QueryEvents(context.Background(), source.Query{
		Group: "plain.log", StartMs: mtime.UnixMilli(), EndMs: mtime.UnixMilli(),
	})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(page.Events) != 1 || page.Events[0].Message != "no timestamp here" {
		t.Errorf("events = %+v", page.Events)
	}
}

func TestQueryEventsPagination(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, "2025-12-11T10:00:0"+string(rune('0'+i))+"Z line")
	}
	writeFile(t, dir, "app.log", strings.Join(lines, "\n"))
	store := New(dir, 2)

	q := source.Query{Group: "app.log", StartMs: 0, EndMs: ms("2030-01-01T00:00:00Z")}
	var cursors []string
	total := 0
	for {
		page, err := store.QueryEvents(context.Background(), q)
		if err != nil {
			t.Fatalf("QueryEvents: %v", err)
		}
		total += len(page.Events)
		if page.NextCursor == "" {
			break
		}
		cursors = append(cursors, page.NextCursor)
		q.Cursor = page.NextCursor
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if !reflect.DeepEqual(cursors, []string{"2", "4"}) {
		t.Errorf("cursors = %v", cursors)
	}
}

func TestQueryEventsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.log", "x\n")
	store := New(dir, 0)

	tests := []struct {
		name    string
		query   source.Query
		wantErr string
	}{
		{name: "missing group", query: source.Query{Group: "gone.log"}, wantErr: "not found"},
		{name: "bad extension", query: source.Query{Group: "app.txt"}, wantErr: "unknown log group"},
		{name: "escapes root", query: source.Query{Group: "../outside.log"}, wantErr: "unknown log group"},
		{name: "bad cursor", query: source.Query{Group: "app.log", Cursor: "abc"}, wantErr: "invalid cursor"},
		{name: "space-delimited filter", query: source.Query{Group: "app.log", Filter: "[ip, user]"}, wantErr: "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.QueryEvents(context.Background(), tt.query)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := source.ByName(Name); !ok {
		t.Fatal("local backend not registered")
	}
}
