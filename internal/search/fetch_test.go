package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/source"
	"github.com/psacc/lumberjack/internal/source/sourcetest"
)

func page(cursor string, events ...model.RawEvent) sourcetest.Response {
	return sourcetest.Response{Page: source.Page{Events: events, NextCursor: cursor}}
}

func ev(ts int64, msg string) model.RawEvent {
	return model.RawEvent{TimestampMs: ts, Message: msg}
}

func TestFetchFollowsCursors(t *testing.T) {
	store := sourcetest.New(
		page("c1", ev(300, "first"), ev(100, "second")),
		page("c2"),
		page("", ev(200, "third")),
	)
	w := Window{Group: "/aws/lambda/api", StartMs: 10, EndMs: 900, Filter: "{ $.level = error }"}

	res, err := Fetch(context.Background(), store, w)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Events != 3 || len(res.Lines) != 3 {
		t.Fatalf("got %d events / %d lines, want 3", res.Events, len(res.Lines))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.HasSuffix(res.Lines[i], " "+want) {
			t.Errorf("line %d = %q, want suffix %q", i, res.Lines[i], want)
		}
	}
	if !res.HasMax || res.MaxTimestamp != 300 {
		t.Errorf("max = %d (%v), want 300", res.MaxTimestamp, res.HasMax)
	}

	queries := store.Queries()
	wantCursors := []string{"", "c1", "c2"}
	if len(queries) != len(wantCursors) {
		t.Fatalf("got %d queries, want %d", len(queries), len(wantCursors))
	}
	for i, q := range queries {
		if q.Cursor != wantCursors[i] {
			t.Errorf("query %d cursor = %q, want %q", i, q.Cursor, wantCursors[i])
		}
		if q.Group != w.Group || q.StartMs != w.StartMs || q.EndMs != w.EndMs || q.Filter != w.Filter {
			t.Errorf("query %d = %+v, want window %+v", i, q, w)
		}
	}
}

func TestFetchStopsOnRepeatedCursor(t *testing.T) {
	store := sourcetest.New(page("same", ev(1, "a")))
	store.Fallback = page("same", ev(2, "b"))

	res, err := Fetch(context.Background(), store, Window{Group: "g"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := len(store.Queries()); got != 2 {
		t.Errorf("store queried %d times, want 2", got)
	}
	if res.Events != 2 {
		t.Errorf("Events = %d, want 2", res.Events)
	}
}

func TestFetchEmpty(t *testing.T) {
	res, err := Fetch(context.Background(), sourcetest.New(page("")), Window{Group: "g"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.HasMax || res.Events != 0 || len(res.Lines) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("throttled")
	store := sourcetest.New(
		page("c1", ev(1, "a")),
		sourcetest.Response{Err: cause},
	)

	res, err := Fetch(context.Background(), store, Window{Group: "/ecs/worker"})
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Group != "/ecs/worker" {
		t.Errorf("Group = %q", fe.Group)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !strings.Contains(err.Error(), "/ecs/worker") || !strings.Contains(err.Error(), "throttled") {
		t.Errorf("Error() = %q", err.Error())
	}
	if len(res.Lines) != 0 {
		t.Errorf("expected no partial lines, got %d", len(res.Lines))
	}
	if got := len(store.Queries()); got != 2 {
		t.Errorf("store queried %d times, want 2 (no retry)", got)
	}
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := sourcetest.New(page("", ev(1, "a")))
	_, err := Fetch(ctx, store, Window{Group: "g"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.Queries()) != 0 {
		t.Error("expected no queries after cancellation")
	}
}
