package local

import "testing"

func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		msg     string
		want    bool
	}{
		{name: "empty matches all", pattern: "", msg: "anything", want: true},
		{name: "term present", pattern: "timeout", msg: "request timeout after 3s", want: true},
		{name: "term case sensitive", pattern: "Timeout", msg: "request timeout", want: false},
		{name: "all terms required", pattern: "request failed", msg: "request timeout", want: false},
		{name: "quoted term", pattern: `"user-42"`, msg: "login user-42", want: true},
		{name: "json equality", pattern: "{ $.level = error }", msg: `{"level":"error"}`, want: true},
		{name: "json mismatch", pattern: "{ $.level = error }", msg: `{"level":"info"}`, want: false},
		{name: "json after prefix", pattern: "{ $.level = error }", msg: `ERROR {"level":"error"}`, want: true},
		{name: "json conjunction", pattern: "{ $.level = error && $.svc = api }", msg: `{"level":"error","svc":"api"}`, want: true},
		{name: "json conjunction fails", pattern: "{ $.level = error && $.svc = api }", msg: `{"level":"error","svc":"web"}`, want: false},
		{name: "nested path", pattern: "{ $.req.status = 500 }", msg: `{"req":{"status":500}}`, want: true},
		{name: "quoted value", pattern: `{ $.msg = "disk full" }`, msg: `{"msg":"disk full"}`, want: true},
		{name: "prefix wildcard", pattern: "{ $.path = /api/* }", msg: `{"path":"/api/users"}`, want: true},
		{name: "not equal", pattern: "{ $.level != debug }", msg: `{"level":"info"}`, want: true},
		{name: "not equal missing field", pattern: "{ $.level != debug }", msg: `{"other":1}`, want: true},
		{name: "missing field", pattern: "{ $.level = error }", msg: `{"other":1}`, want: false},
		{name: "plain text line", pattern: "{ $.level = error }", msg: "level=error", want: false},
		{name: "boolean", pattern: "{ $.ok = true }", msg: `{"ok":true}`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := compileMatcher(tt.pattern)
			if err != nil {
				t.Fatalf("compileMatcher(%q): %v", tt.pattern, err)
			}
			if got := m.match(tt.msg); got != tt.want {
				t.Errorf("match(%q) with %q = %v, want %v", tt.msg, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestCompileMatcherErrors(t *testing.T) {
	for _, pattern := range []string{
		"{ $.level = error",
		"{ }",
		"{ $.a = 1 || $.b = 2 }",
		"{ level = error }",
		"{ $.level }",
		"[ip, user, ...]",
	} {
		if _, err := compileMatcher(pattern); err == nil {
			t.Errorf("compileMatcher(%q) expected error", pattern)
		}
	}
}
