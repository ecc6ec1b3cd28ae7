package local

import (
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/psacc/lumberjack/internal/model"
)

var timestampFields = []string{"timestamp", "time", "ts", "@timestamp"}

var lineParsers fastjson.ParserPool

// parseLine extracts an event from one line. The timestamp comes from a
// leading RFC 3339 token, then a JSON timestamp field, then fallbackMs.
func parseLine(line string, fallbackMs int64) model.RawEvent {
	if tok, rest, ok := strings.Cut(line, " "); ok {
		if t, err := time.Parse(time.RFC3339Nano, tok); err == nil {
			return model.RawEvent{TimestampMs: t.UnixMilli(), Message: strings.TrimLeft(rest, " ")}
		}
	} else if t, err := time.Parse(time.RFC3339Nano, line); err == nil {
		return model.RawEvent{TimestampMs: t.UnixMilli()}
	}

	if strings.HasPrefix(strings.TrimSpace(line), "{") {
		if ms, ok := jsonTimestamp(line); ok {
			return model.RawEvent{TimestampMs: ms, Message: line}
		}
	}
	return model.RawEvent{TimestampMs: fallbackMs, Message: line}
}

func jsonTimestamp(line string) (int64, bool) {
	p := lineParsers.Get()
	defer lineParsers.Put(p)

	v, err := p.Parse(line)
	if err != nil {
		return 0, false
	}
	for _, field := range timestampFields {
		fv := v.Get(field)
		if fv == nil {
			continue
		}
		switch fv.Type() {
		case fastjson.TypeString:
			if t, err := time.Parse(time.RFC3339Nano, string(fv.GetStringBytes())); err == nil {
				return t.UnixMilli(), true
			}
		case fastjson.TypeNumber:
			n := fv.GetFloat64()
			// Values below 1e12 are epoch seconds.
			if n < 1e12 {
				return int64(n * 1000), true
			}
			return int64(n), true
		}
	}
	return 0, false
}
