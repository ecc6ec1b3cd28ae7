package output

import "strings"

// Level is the coarse severity of a rendered log line.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelMarkers = []struct {
	level   Level
	markers []string
}{
	{LevelError, []string{"ERROR", "FATAL", "PANIC", "CRITICAL", "EXCEPTION"}},
	{LevelWarn, []string{"WARN"}},
	{LevelInfo, []string{"INFO"}},
	{LevelDebug, []string{"DEBUG", "TRACE"}},
}

// DetectLevel classifies line by the most severe marker it contains.
func DetectLevel(line string) Level {
	upper := strings.ToUpper(line)
	for _, lm := range levelMarkers {
		for _, m := range lm.markers {
			if strings.Contains(upper, m) {
				return lm.level
			}
		}
	}
	return LevelUnknown
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}
