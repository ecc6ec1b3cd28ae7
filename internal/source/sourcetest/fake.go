// Package sourcetest provides an in-memory source.Store for tests.
package sourcetest

import (
	"context"
	"sync"

	"github.com/psacc/lumberjack/internal/source"
)

// Response is one scripted reply to QueryEvents.
type Response struct {
	Page source.Page
	Err  error
}

// Store replays scripted responses in order. Once the script is exhausted
// it keeps returning Fallback. Every query is recorded.
type Store struct {
	Groups    []string
	GroupsErr error
	Fallback  Response

	// OnQuery, if set, runs before a response is chosen.
	OnQuery func(q source.Query)

	mu      sync.Mutex
	script  []Response
	queries []source.Query
}

// New returns a store that answers with responses in order.
func New(responses ...Response) *Store {
	return &Store{script: responses}
}

// Push appends responses to the script.
func (s *Store) Push(responses ...Response) {
	s.mu.Lock()
	s.script = append(s.script, responses...)
	s.mu.Unlock()
}

// ListGroups implements source.Store.
func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.GroupsErr != nil {
		return nil, s.GroupsErr
	}
	return append([]string(nil), s.Groups...), nil
}

// QueryEvents implements source.Store.
func (s *Store) QueryEvents(ctx context.Context, q source.Query) (source.Page, error) {
	if s.OnQuery != nil {
		s.OnQuery(q)
	}
	if err := ctx.Err(); err != nil {
		return source.Page{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if len(s.script) == 0 {
		return s.Fallback.Page, s.Fallback.Err
	}
	r := s.script[0]
	s.script = s.script[1:]
	return r.Page, r.Err
}

// Queries returns a copy of every query received so far.
func (s *Store) Queries() []source.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]source.Query(nil), s.queries...)
}

// Backend wraps s as a registrable backend.
func (s *Store) Backend(name string) source.Backend {
	return source.Backend{
		Name: name,
		Open: func(context.Context, source.Options) (source.Store, error) {
			return s, nil
		},
	}
}
