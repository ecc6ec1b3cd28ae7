package source

import (
	"context"
	"fmt"

	"github.com/psacc/lumberjack/internal/model"
)

// Query selects one page of events from a single group.
type Query struct {
	Group   string
	StartMs int64  // inclusive
	EndMs   int64  // inclusive
	Filter  string // store-native pattern, "" = everything
	Cursor  string // "" = first page
}

// Page is one response of a paginated query.
type Page struct {
	Events     []model.RawEvent
	NextCursor string // "" when there are no further pages
}

// Store is the interface that each log backend implements.
// A superseded search may still be draining while the next one starts, so
// implementations must be safe for concurrent use.
type Store interface {
	// ListGroups returns every group name the caller may query.
	ListGroups(ctx context.Context) ([]string, error)

	// QueryEvents returns one page of events matching q. Events within a
	// page are not assumed to be ordered.
	QueryEvents(ctx context.Context, q Query) (Page, error)
}

// Options configures a backend when it is opened.
type Options struct {
	Region   string
	Profile  string
	Dir      string // local backend root
	PageSize int    // 0 = backend default
}

// InitError reports a store client that could not be constructed
// (credentials, region, missing directory).
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s client: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
