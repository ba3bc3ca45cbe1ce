package policy

import (
	"fmt"
	"strings"
)

// pattern is a compiled path pattern.
//
// Segments are matched one for one. "*" and "{name}" match any single
// non-empty segment. A final "**" matches the remainder of the path,
// including nothing at all, so "/api/artists/**" covers "/api/artists"
// as well as "/api/artists/7/pictures".
type pattern struct {
	raw      string
	segments []string
	rest     bool
}

func compilePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("policy: pattern %q must start with /", raw)
	}

	p := pattern{raw: raw}
	segs := splitPath(raw)
	for i, s := range segs {
		switch {
		case s == "**":
			if i != len(segs)-1 {
				return pattern{}, fmt.Errorf("policy: pattern %q: ** is only allowed as the last segment", raw)
			}
			p.rest = true
		case strings.HasPrefix(s, "{") != strings.HasSuffix(s, "}"):
			return pattern{}, fmt.Errorf("policy: pattern %q: unbalanced braces in %q", raw, s)
		case strings.HasPrefix(s, "{"):
			p.segments = append(p.segments, "*")
		default:
			p.segments = append(p.segments, s)
		}
	}
	return p, nil
}

func (p pattern) match(path string) bool {
	segs := splitPath(path)
	if len(segs) < len(p.segments) {
		return false
	}
	if !p.rest && len(segs) != len(p.segments) {
		return false
	}
	for i, want := range p.segments {
		if want != "*" && want != segs[i] {
			return false
		}
	}
	return true
}

// splitPath breaks a path into its non-empty segments, so "/a//b/" and
// "/a/b" compare equal.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// methods is a compiled method matcher. An empty set matches any method.
type methods []string

func compileMethods(raw string) methods {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return nil
	}
	var out methods
	for m := range strings.SplitSeq(raw, "|") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (ms methods) match(method string) bool {
	if len(ms) == 0 {
		return true
	}
	for _, m := range ms {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
