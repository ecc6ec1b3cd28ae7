package output

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/valyala/fastjson"

	"github.com/psacc/lumberjack/internal/model"
)

// timestampLayout is RFC 3339 with millisecond precision when non-zero.
const timestampLayout = "2006-01-02T15:04:05.999Z07:00"

var payloadParsers fastjson.ParserPool

// FormatTimestamp renders ms as an RFC 3339 UTC instant, or as the raw
// integer when the instant is not representable as a four-digit year.
func FormatTimestamp(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	if y := t.Year(); y < 0 || y > 9999 {
		return strconv.FormatInt(ms, 10)
	}
	return t.Format(timestampLayout)
}

// FormatEvent renders one event as a display entry. A JSON payload that
// follows a text prefix is pretty-printed on the following lines; anything
// that does not parse completely is shown verbatim.
func FormatEvent(ev model.RawEvent) string {
	ts := FormatTimestamp(ev.TimestampMs)
	msg := strings.TrimRightFunc(ev.Message, unicode.IsSpace)

	idx := strings.IndexByte(msg, '{')
	if idx < 0 {
		return ts + " " + msg
	}

	pretty, ok := prettyJSON(msg[idx:])
	if !ok {
		return ts + " " + msg
	}
	prefix := strings.TrimRightFunc(msg[:idx], unicode.IsSpace)
	if prefix == "" {
		return ts + "\n" + pretty
	}
	return ts + " " + prefix + "\n" + pretty
}

// prettyJSON indents payload when it is exactly one JSON value.
func prettyJSON(payload string) (string, bool) {
	p := payloadParsers.Get()
	_, err := p.Parse(payload)
	payloadParsers.Put(p)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(payload), "", "  "); err != nil {
		return "", false
	}
	return strings.TrimRightFunc(buf.String(), unicode.IsSpace), true
}
