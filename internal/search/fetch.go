// Package search runs log queries in the background and streams their
// output as an ordered sequence of result lines.
package search

import (
	"context"
	"fmt"

	"github.com/psacc/lumberjack/internal/output"
	"github.com/psacc/lumberjack/internal/source"
)

// Window is one query over a single group.
type Window struct {
	Group   string
	StartMs int64
	EndMs   int64
	Filter  string // already compiled to store-native syntax
}

// FetchResult holds the formatted output of one Fetch.
type FetchResult struct {
	Lines        []string
	Events       int
	MaxTimestamp int64
	HasMax       bool // false when no events were returned
}

// FetchError reports a failed page request.
type FetchError struct {
	Group string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Group, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetch reads every page of w from store and formats the events in the
// order received. Pagination ends when the store returns no cursor or
// repeats the cursor it was just given. Failed requests are not retried.
func Fetch(ctx context.Context, store source.Store, w Window) (FetchResult, error) {
	var res FetchResult
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return FetchResult{}, &FetchError{Group: w.Group, Err: err}
		}
		page, err := store.QueryEvents(ctx, source.Query{
			Group:   w.Group,
			StartMs: w.StartMs,
			EndMs:   w.EndMs,
			Filter:  w.Filter,
			Cursor:  cursor,
		})
		if err != nil {
			return FetchResult{}, &FetchError{Group: w.Group, Err: err}
		}

		for _, ev := range page.Events {
			res.Lines = append(res.Lines, output.FormatEvent(ev))
			res.Events++
			if !res.HasMax || ev.TimestampMs > res.MaxTimestamp {
				res.MaxTimestamp = ev.TimestampMs
				res.HasMax = true
			}
		}

		if page.NextCursor == "" || page.NextCursor == cursor {
			return res, nil
		}
		cursor = page.NextCursor
	}
}
