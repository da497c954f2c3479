package schema

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Selection is the outcome of matching requested names against definitions.
type Selection struct {
	// Matched holds the selected definitions in source order.
	Matched []Definition

	// Unmatched holds requested names (or patterns) that matched nothing, in
	// the order they were requested.
	Unmatched []string
}

// Found reports whether at least one definition was selected.
func (s Selection) Found() bool {
	return len(s.Matched) > 0
}

// Partial reports whether some requests matched and others did not.
func (s Selection) Partial() bool {
	return len(s.Matched) > 0 && len(s.Unmatched) > 0
}

// Select picks the definitions whose name equals one of the requested names.
// Matching is exact and case-sensitive. Every definition sharing a requested
// name is included, each at most once.
func Select(defs []Definition, requested []string) Selection {
	want := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		want[name] = struct{}{}
	}

	return collect(defs, requested, func(d Definition) []string {
		if _, ok := want[d.Name]; ok {
			return []string{d.Name}
		}
		return nil
	})
}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// SelectGlob picks the definitions whose name matches any of the patterns.
// Patterns use gobwas/glob syntax (*, ?, [abc], {a,b}). A pattern that
// matches no definition is reported in Unmatched.
func SelectGlob(defs []Definition, patterns []string) (Selection, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return Selection{}, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, compiledPattern{pattern: p, glob: g})
	}

	return collect(defs, patterns, func(d Definition) []string {
		var hits []string
		for _, cp := range compiled {
			if cp.glob.Match(d.Name) {
				hits = append(hits, cp.pattern)
			}
		}
		return hits
	}), nil
}

// collect walks defs in source order, keeping those for which match returns
// at least one satisfied request, then reports the unsatisfied requests.
func collect(defs []Definition, requests []string, match func(Definition) []string) Selection {
	var sel Selection
	satisfied := make(map[string]bool, len(requests))

	for _, d := range defs {
		hits := match(d)
		if len(hits) == 0 {
			continue
		}
		for _, h := range hits {
			satisfied[h] = true
		}
		sel.Matched = append(sel.Matched, d)
	}

	reported := make(map[string]bool)
	for _, r := range requests {
		if satisfied[r] || reported[r] {
			continue
		}
		reported[r] = true
		sel.Unmatched = append(sel.Unmatched, r)
	}

	return sel
}

// Names returns the distinct definition names in source order.
func Names(defs []Definition) []string {
	seen := make(map[string]bool, len(defs))
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		names = append(names, d.Name)
	}
	return names
}

// FilterKind returns the definitions of the given kind, preserving order.
func FilterKind(defs []Definition, kind Kind) []Definition {
	var out []Definition
	for _, d := range defs {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
