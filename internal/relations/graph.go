// Package relations links schema definitions through their foreign keys so an
// extraction can pull in the tables a request depends on.
package relations

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/ais/internal/schema"
)

// Graph is a directed foreign-key graph: an edge A -> B means A references B.
type Graph struct {
	g graph.Graph[string, string]
}

// New builds the graph from the definitions and foreign keys of one schema.
// Foreign keys naming unknown tables are ignored.
func New(defs []schema.Definition, fks []schema.ForeignKey) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed())

	for _, name := range schema.Names(defs) {
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add table %s: %w", name, err)
		}
	}

	for _, fk := range fks {
		err := g.AddEdge(fk.From, fk.To)
		switch {
		case err == nil,
			errors.Is(err, graph.ErrEdgeAlreadyExists),
			errors.Is(err, graph.ErrVertexNotFound):
		default:
			return nil, fmt.Errorf("failed to add foreign key %s -> %s: %w", fk.From, fk.To, err)
		}
	}

	return &Graph{g: g}, nil
}

// Related returns names plus every table reachable within depth foreign-key
// hops in either direction. Requested names come first, then discoveries by
// distance and name. Names absent from the graph are passed through.
func (r *Graph) Related(names []string, depth int) ([]string, error) {
	out := append([]string(nil), names...)
	if depth <= 0 {
		return out, nil
	}

	successors, err := r.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	predecessors, err := r.g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}

	seen := make(map[string]bool, len(names))
	frontier := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			frontier = append(frontier, n)
		}
	}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, n := range frontier {
			for neighbor := range successors[n] {
				if !seen[neighbor] {
					seen[neighbor] = true
					next = append(next, neighbor)
				}
			}
			for neighbor := range predecessors[n] {
				if !seen[neighbor] {
					seen[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		sort.Strings(next)
		out = append(out, next...)
		frontier = next
	}

	return out, nil
}

// References returns the tables name points at, sorted.
func (r *Graph) References(name string) []string {
	successors, err := r.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	refs := make([]string, 0, len(successors[name]))
	for to := range successors[name] {
		refs = append(refs, to)
	}
	sort.Strings(refs)
	return refs
}

// Expand widens sel with the tables related to its matches within depth
// hops. input and defs are the schema sel was selected from. Unmatched
// requests are kept as they were.
func Expand(input string, defs []schema.Definition, sel schema.Selection, depth int) (schema.Selection, error) {
	if depth <= 0 || !sel.Found() {
		return sel, nil
	}

	g, err := New(defs, schema.ForeignKeys(input, defs))
	if err != nil {
		return sel, err
	}
	names, err := g.Related(schema.Names(sel.Matched), depth)
	if err != nil {
		return sel, err
	}

	expanded := schema.Select(defs, names)
	expanded.Unmatched = sel.Unmatched
	return expanded, nil
}
