package diff

import (
	"fmt"
	"strings"
)

// ParsePath parses an exclusion path into its components.
//
// Two syntaxes are accepted:
//
//	root['metadata']['updated_at']   (bracket form)
//	metadata.updated_at              (dotted form)
//
// Numeric components address list positions, e.g. tags.0 or root['tags'][0].
func ParsePath(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("exclusion path is empty")
	}

	if strings.HasPrefix(s, "root[") {
		return parseBracketPath(s)
	}
	if strings.ContainsAny(s, "[]") {
		return nil, fmt.Errorf("invalid exclusion path %q: bracket form must start with root[", s)
	}

	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid exclusion path %q: empty component", s)
		}
	}
	return parts, nil
}

func parseBracketPath(s string) ([]string, error) {
	rest := strings.TrimPrefix(s, "root")
	var parts []string

	for rest != "" {
		if !strings.HasPrefix(rest, "[") {
			return nil, fmt.Errorf("invalid exclusion path %q: expected '[' at %q", s, rest)
		}
		end := strings.Index(rest, "]")
		if end < 0 {
			return nil, fmt.Errorf("invalid exclusion path %q: unterminated bracket", s)
		}

		component := rest[1:end]
		if len(component) >= 2 && (component[0] == '\'' || component[0] == '"') {
			if component[len(component)-1] != component[0] {
				return nil, fmt.Errorf("invalid exclusion path %q: mismatched quotes", s)
			}
			component = component[1 : len(component)-1]
		}
		if component == "" {
			return nil, fmt.Errorf("invalid exclusion path %q: empty component", s)
		}

		parts = append(parts, component)
		rest = rest[end+1:]
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid exclusion path %q: no components", s)
	}
	return parts, nil
}

// Excludes is a set of parsed exclusion paths. A delta entry is suppressed
// when an exclusion is a prefix of its path.
type Excludes [][]string

// ParseExcludes parses the raw exclusion flags into an exclusion set.
func ParseExcludes(raw []string) (Excludes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	set := make(Excludes, 0, len(raw))
	for _, r := range raw {
		path, err := ParsePath(r)
		if err != nil {
			return nil, err
		}
		set = append(set, path)
	}
	return set, nil
}

// Match reports whether the given path falls under any exclusion.
func (e Excludes) Match(path []string) bool {
	for _, prefix := range e {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
