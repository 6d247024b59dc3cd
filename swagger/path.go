package swagger

import (
	"regexp"
	"strings"
)

// pathVarRegexp matches router path variables in the form :name.
var pathVarRegexp = regexp.MustCompile(`:(\w+)`)

// NormalizePath converts a router path template ("/users/:id") to the
// document placeholder syntax ("/users/{id}"). Paths without variables are
// returned unchanged. An empty template is an absent path and reports false.
func NormalizePath(tpl string) (string, bool) {
	if tpl == "" {
		return "", false
	}
	return pathVarRegexp.ReplaceAllString(tpl, "{$1}"), true
}

// PathParameters returns one required path parameter per variable segment
// of tpl, in template order. The parameter type is left unset since the
// router does not constrain variable values.
func PathParameters(tpl string) []*Parameter {
	var params []*Parameter
	for _, seg := range strings.Split(tpl, "/") {
		name, ok := strings.CutPrefix(seg, ":")
		if !ok || name == "" {
			continue
		}
		params = append(params, &Parameter{
			Name:     name,
			In:       "path",
			Required: true,
		})
	}
	return params
}
