// Package timespec resolves the start/end expressions typed into the search
// form into absolute instants in milliseconds since the epoch.
//
// Accepted forms:
//
//	""                      now (end) or now-15m (start)
//	-<N>[s|m|h|d]           relative to now; unit defaults to seconds
//	2025-12-11T10:00:00Z    RFC 3339, any offset, optional fractional seconds
//	2025-12-11 10:00:00     naive, interpreted as UTC
//
// Resolution never reads the wall clock: callers pass the reference instant
// so a start/end pair is always evaluated against the same "now".
package timespec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultLookback is the window used when the start expression is empty.
const DefaultLookback = 15 * time.Minute

const naiveLayout = "2006-01-02 15:04:05"

var unitMillis = map[string]int64{
	"":  1000,
	"s": 1000,
	"m": 60 * 1000,
	"h": 60 * 60 * 1000,
	"d": 24 * 60 * 60 * 1000,
}

// ParseError reports a time expression that could not be resolved.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Spec, e.Reason)
}

// ResolveStart resolves a start expression. Empty means DefaultLookback
// before nowMs.
func ResolveStart(spec string, nowMs int64) (int64, error) {
	if strings.TrimSpace(spec) == "" {
		return nowMs - DefaultLookback.Milliseconds(), nil
	}
	return resolve(spec, nowMs)
}

// ResolveEnd resolves an end expression. Empty means nowMs.
func ResolveEnd(spec string, nowMs int64) (int64, error) {
	if strings.TrimSpace(spec) == "" {
		return nowMs, nil
	}
	return resolve(spec, nowMs)
}

func resolve(spec string, nowMs int64) (int64, error) {
	s := strings.TrimSpace(spec)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return resolveRelative(spec, rest, nowMs)
	}
	return resolveAbsolute(spec, s)
}

func resolveRelative(spec, rest string, nowMs int64) (int64, error) {
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	num, unit := rest[:i], rest[i:]
	if num == "" {
		return 0, &ParseError{Spec: spec, Reason: "missing number"}
	}
	mult, ok := unitMillis[unit]
	if !ok {
		return 0, &ParseError{Spec: spec, Reason: fmt.Sprintf("unknown unit %q (use s, m, h or d)", unit)}
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, &ParseError{Spec: spec, Reason: "too large"}
	}
	if n > math.MaxInt64/mult {
		return 0, &ParseError{Spec: spec, Reason: "too large"}
	}
	offset := n * mult
	if nowMs < 0 && offset > nowMs-math.MinInt64 {
		return 0, &ParseError{Spec: spec, Reason: "too large"}
	}
	return nowMs - offset, nil
}

func resolveAbsolute(spec, s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return t.UnixMilli(), nil
	}
	return 0, &ParseError{
		Spec:   spec,
		Reason: "use RFC3339 (2025-12-11T10:00:00Z), simple UTC (2025-12-11 10:00:00) or relative (-15m)",
	}
}

// FormatMillis renders ms as an RFC 3339 UTC instant.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
