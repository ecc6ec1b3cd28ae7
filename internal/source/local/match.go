package local

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// clause is one "$.a.b = value" comparison.
type clause struct {
	path   []string
	value  string
	negate bool
	prefix bool // value ended with '*'
}

// matcher evaluates the subset of CloudWatch filter syntax the local
// backend understands: JSON equality clauses joined by && and plain terms.
type matcher struct {
	clauses []clause
	terms   []string
}

func compileMatcher(pattern string) (*matcher, error) {
	p := strings.TrimSpace(pattern)
	switch {
	case p == "":
		return &matcher{}, nil
	case strings.HasPrefix(p, "{"):
		return compileJSONPattern(p)
	case strings.HasPrefix(p, "["):
		return nil, fmt.Errorf("unsupported filter pattern %q: space-delimited patterns need the cloudwatch backend", pattern)
	}

	m := &matcher{}
	for _, term := range strings.Fields(p) {
		if unq, err := strconv.Unquote(term); err == nil {
			term = unq
		}
		if term != "" {
			m.terms = append(m.terms, term)
		}
	}
	return m, nil
}

func compileJSONPattern(p string) (*matcher, error) {
	if !strings.HasSuffix(p, "}") {
		return nil, fmt.Errorf("unsupported filter pattern %q: missing closing brace", p)
	}
	body := strings.TrimSpace(p[1 : len(p)-1])
	if body == "" {
		return nil, fmt.Errorf("unsupported filter pattern %q: empty selector", p)
	}
	if strings.Contains(body, "||") {
		return nil, fmt.Errorf("unsupported filter pattern %q: only && is supported", p)
	}

	m := &matcher{}
	for _, part := range strings.Split(body, "&&") {
		c, err := parseClause(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("unsupported filter pattern %q: %w", p, err)
		}
		m.clauses = append(m.clauses, c)
	}
	return m, nil
}

func parseClause(s string) (clause, error) {
	var c clause
	lhs, rhs, ok := strings.Cut(s, "!=")
	if ok {
		c.negate = true
	} else if lhs, rhs, ok = strings.Cut(s, "="); !ok {
		return c, fmt.Errorf("clause %q has no = or !=", s)
	}

	lhs = strings.TrimSpace(lhs)
	field, ok := strings.CutPrefix(lhs, "$.")
	if !ok || field == "" {
		return c, fmt.Errorf("clause %q does not select a $. field", s)
	}
	c.path = strings.Split(field, ".")

	val := strings.TrimSpace(rhs)
	if unq, err := strconv.Unquote(val); err == nil {
		val = unq
	}
	if v, ok := strings.CutSuffix(val, "*"); ok {
		c.prefix = true
		val = v
	}
	c.value = val
	return c, nil
}

func (m *matcher) match(msg string) bool {
	for _, term := range m.terms {
		if !strings.Contains(msg, term) {
			return false
		}
	}
	if len(m.clauses) == 0 {
		return true
	}

	idx := strings.IndexByte(msg, '{')
	if idx < 0 {
		return false
	}
	p := lineParsers.Get()
	defer lineParsers.Put(p)
	v, err := p.Parse(msg[idx:])
	if err != nil {
		return false
	}
	for _, c := range m.clauses {
		if !c.eval(v) {
			return false
		}
	}
	return true
}

func (c clause) eval(root *fastjson.Value) bool {
	got, ok := scalar(root.Get(c.path...))
	if !ok {
		return c.negate
	}
	var eq bool
	if c.prefix {
		eq = strings.HasPrefix(got, c.value)
	} else {
		eq = got == c.value
	}
	return eq != c.negate
}

// scalar renders a JSON leaf as the text a pattern value is compared to.
func scalar(v *fastjson.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes()), true
	case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse, fastjson.TypeNull:
		return v.String(), true
	default:
		return "", false
	}
}
