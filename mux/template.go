package mux

import (
	"fmt"
	"regexp"
	"strings"
)

// varNameRegexp restricts variable names to word characters so that a
// template variable always round-trips through "{name}" placeholders.
var varNameRegexp = regexp.MustCompile(`^\w+$`)

// templateVar is a variable segment within a path template.
type templateVar struct {
	index int
	name  string
}

// pathTemplate is a parsed path template using the colon token syntax
// ("/users/:id/orders/:orderId"). A template matches segment by segment;
// prefix templates match any path starting with their segments.
type pathTemplate struct {
	// template is the full template string, including any parent prefix.
	template string
	// prefix indicates a path prefix match.
	prefix bool
	// segments are the "/" separated parts after the leading slash.
	segments []string
	// vars are the variable segments in template order.
	vars []templateVar
}

// newPathTemplate parses tpl. Templates must start with a slash; variable
// segments are a colon followed by one or more word characters.
func newPathTemplate(tpl string, prefix bool) (*pathTemplate, error) {
	if tpl == "" || tpl[0] != '/' {
		return nil, fmt.Errorf("mux: path template must start with a slash, got %q", tpl)
	}

	body := tpl[1:]
	if prefix {
		body = strings.TrimRight(body, "/")
	}

	t := &pathTemplate{
		template: tpl,
		prefix:   prefix,
	}
	if body != "" || !prefix {
		t.segments = strings.Split(body, "/")
	}

	seen := make(map[string]struct{})
	for i, seg := range t.segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		if !varNameRegexp.MatchString(name) {
			return nil, fmt.Errorf("mux: invalid variable segment %q in template %q", seg, tpl)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("mux: duplicated route variable %q", name)
		}
		seen[name] = struct{}{}
		t.vars = append(t.vars, templateVar{index: i, name: name})
	}

	return t, nil
}

// isVar reports whether segment i is a variable.
func (t *pathTemplate) isVar(i int) bool {
	for _, v := range t.vars {
		if v.index == i {
			return true
		}
	}
	return false
}

// match matches the request path against the template and returns the
// extracted variables. Variables never match an empty segment.
func (t *pathTemplate) match(path string) (map[string]string, bool) {
	if path == "" {
		path = "/"
	}
	if path[0] != '/' {
		return nil, false
	}

	reqSegs := strings.Split(path[1:], "/")
	if t.prefix {
		if len(reqSegs) < len(t.segments) {
			return nil, false
		}
	} else if len(reqSegs) != len(t.segments) {
		return nil, false
	}

	for i, seg := range t.segments {
		if t.isVar(i) {
			if reqSegs[i] == "" {
				return nil, false
			}
			continue
		}
		if seg != reqSegs[i] {
			return nil, false
		}
	}

	if len(t.vars) == 0 {
		return nil, true
	}

	vars := make(map[string]string, len(t.vars))
	for _, v := range t.vars {
		vars[v.name] = reqSegs[v.index]
	}
	return vars, true
}

// varNames returns the variable names in template order.
func (t *pathTemplate) varNames() []string {
	names := make([]string, len(t.vars))
	for i, v := range t.vars {
		names[i] = v.name
	}
	return names
}

// build substitutes values into the template. Every variable must be set.
func (t *pathTemplate) build(values map[string]string) (string, error) {
	segs := make([]string, len(t.segments))
	copy(segs, t.segments)
	for _, v := range t.vars {
		val, ok := values[v.name]
		if !ok || val == "" {
			return "", fmt.Errorf("mux: missing route variable %q", v.name)
		}
		segs[v.index] = val
	}
	return "/" + strings.Join(segs, "/"), nil
}
