package model

// LineKind classifies a ResultLine.
type LineKind int

const (
	LineText   LineKind = iota // formatted log event
	LineHeader                 // "--- N results ---"
	LineInfo                   // progress/feedback ("Searching ...")
	LineError                  // "[search error] ...", "[tail error] ..."
	LineDone                   // terminal marker: no further output for the session
)

// ResultLine is one unit of search output, produced by a search worker and
// consumed by exactly one reader.
type ResultLine struct {
	Session string
	Kind    LineKind
	Text    string
}

// Terminal reports whether l is the end-of-session marker.
func (l ResultLine) Terminal() bool {
	return l.Kind == LineDone
}

// ShortSession returns the first 8 chars of the session ID.
func (l ResultLine) ShortSession() string {
	return ShortID(l.Session)
}

// ShortID returns first 8 chars of id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
