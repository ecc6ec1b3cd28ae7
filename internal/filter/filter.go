// Package filter turns short-hand search expressions into the store's native
// filter pattern syntax.
//
//	routing_id=123          -> { $.routing_id = 123 }
//	level:error user=42     -> { $.level = error && $.user = 42 }
//	{ $.latency > 500 }     -> unchanged (already native)
//	ERROR                   -> unchanged (plain term)
//	a=1 bad-token           -> unchanged (not every token is short-hand)
package filter

import "strings"

// IsNative reports whether s is already written in the native pattern
// syntax and must not be reinterpreted.
func IsNative(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") || strings.Contains(t, "$")
}

// Compile converts raw into a native filter pattern. It is pure and
// idempotent: Compile(Compile(x)) == Compile(x).
func Compile(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if IsNative(raw) {
		return raw
	}

	tokens := strings.Fields(raw)
	clauses := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		field, value, ok := splitShorthand(tok)
		if !ok {
			return raw
		}
		clauses = append(clauses, "$."+field+" = "+value)
	}
	return "{ " + strings.Join(clauses, " && ") + " }"
}

// splitShorthand reads tok as field=value or field:value. '=' wins when both
// separators are present.
func splitShorthand(tok string) (field, value string, ok bool) {
	sep := "="
	if !strings.Contains(tok, sep) {
		sep = ":"
	}
	field, value, found := strings.Cut(tok, sep)
	if !found {
		return "", "", false
	}
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return "", "", false
	}
	return field, value, true
}
