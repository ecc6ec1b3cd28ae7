// Package local implements source.Store over a directory of log files so
// the browser can be used offline. Every *.log or *.jsonl file below the
// root is a group named by its slash-separated relative path.
package local

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/source"
)

// Name is the backend identifier used in config and on the command line.
const Name = "local"

// DefaultPageSize is the number of events per page when none is configured.
const DefaultPageSize = 100

const maxLineSize = 1024 * 1024

var extensions = []string{".log", ".jsonl"}

func init() {
	source.Register(source.Backend{Name: Name, Open: Open})
}

type localStore struct {
	root     string
	pageSize int
}

// Open returns a store rooted at opts.Dir.
func Open(_ context.Context, opts source.Options) (source.Store, error) {
	if opts.Dir == "" {
		return nil, &source.InitError{Backend: Name, Err: errors.New("no directory configured (set --dir or local.dir)")}
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, &source.InitError{Backend: Name, Err: err}
	}
	if !info.IsDir() {
		return nil, &source.InitError{Backend: Name, Err: fmt.Errorf("%s is not a directory", opts.Dir)}
	}
	return New(opts.Dir, opts.PageSize), nil
}

// New returns a store rooted at dir without checking that it exists.
func New(dir string, pageSize int) source.Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &localStore{root: dir, pageSize: pageSize}
}

func (s *localStore) ListGroups(ctx context.Context) ([]string, error) {
	var groups []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !hasLogExt(path) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		groups = append(groups, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	sort.Strings(groups)
	return groups, nil
}

func (s *localStore) QueryEvents(ctx context.Context, q source.Query) (source.Page, error) {
	m, err := compileMatcher(q.Filter)
	if err != nil {
		return source.Page{}, err
	}
	offset := 0
	if q.Cursor != "" {
		offset, err = strconv.Atoi(q.Cursor)
		if err != nil || offset < 0 {
			return source.Page{}, fmt.Errorf("invalid cursor %q", q.Cursor)
		}
	}

	path, err := s.groupPath(q.Group)
	if err != nil {
		return source.Page{}, err
	}
	events, err := readEvents(ctx, path)
	if err != nil {
		return source.Page{}, err
	}

	var matched []model.RawEvent
	for _, ev := range events {
		if ev.TimestampMs < q.StartMs || ev.TimestampMs > q.EndMs {
			continue
		}
		if m.match(ev.Message) {
			matched = append(matched, ev)
		}
	}

	if offset >= len(matched) {
		return source.Page{}, nil
	}
	end := offset + s.pageSize
	page := source.Page{}
	if end < len(matched) {
		page.NextCursor = strconv.Itoa(end)
	} else {
		end = len(matched)
	}
	page.Events = matched[offset:end]
	return page, nil
}

// groupPath maps a group name to a file below the root.
func (s *localStore) groupPath(group string) (string, error) {
	if group == "" || !hasLogExt(group) {
		return "", fmt.Errorf("unknown log group %q", group)
	}
	path := filepath.Join(s.root, filepath.FromSlash(group))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unknown log group %q", group)
	}
	return path, nil
}

func readEvents(ctx context.Context, path string) ([]model.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("log group not found: %s", filepath.Base(path))
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	fallback := info.ModTime().UnixMilli()

	var events []model.RawEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		events = append(events, parseLine(line, fallback))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return events, nil
}

func hasLogExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
