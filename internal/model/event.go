package model

import "time"

// RawEvent is one log event as delivered by a store. Timestamps are not
// assumed unique or ordered across pages.
type RawEvent struct {
	TimestampMs int64  `json:"timestamp"`
	Message     string `json:"message"`
}

// Time returns the event timestamp as a UTC time.
func (e RawEvent) Time() time.Time {
	return time.UnixMilli(e.TimestampMs).UTC()
}

// Group is a named log partition (e.g. "/aws/lambda/api").
type Group string

// Short returns the last two path components (e.g., "lambda/api").
func (g Group) Short() string {
	parts := splitPath(string(g))
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return string(g)
}

func splitPath(p string) []string {
	var parts []string
	var current string
	for _, c := range p {
		if c == '/' {
			if current != "" {
				parts = append(parts, current)
			}
			current = ""
		} else {
			current += string(c)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
