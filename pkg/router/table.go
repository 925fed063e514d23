package router

// Table is an immutable compiled pattern set. It is safe for concurrent use
// by any number of goroutines. A pattern-set change builds a new Table; see
// Registry for swapping tables at runtime.
type Table struct {
	// patterns in descending rank order.
	patterns []*RoutePattern
	byID     map[string]int

	// parent and children form the layout composition arena, indexed like
	// patterns. parent[i] is -1 for roots.
	parent   []int
	children [][]int

	// static buckets patterns by their first literal; dynamic holds the rest.
	// Both are in rank order.
	static  map[string][]int
	dynamic []int

	fold bool
}

// Len returns the number of patterns.
func (t *Table) Len() int { return len(t.patterns) }

// Patterns returns the patterns in match order, most specific first.
func (t *Table) Patterns() []*RoutePattern {
	return append([]*RoutePattern(nil), t.patterns...)
}

// CaseInsensitive reports whether the table was compiled with
// WithCaseInsensitive.
func (t *Table) CaseInsensitive() bool { return t.fold }

// Lookup returns the pattern declared as id.
func (t *Table) Lookup(id string) (*RoutePattern, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.patterns[i], true
}

// Parent returns the pattern whose declaration segments are the longest proper
// prefix of id's declaration.
func (t *Table) Parent(id string) (*RoutePattern, bool) {
	i, ok := t.byID[id]
	if !ok || t.parent[i] < 0 {
		return nil, false
	}
	return t.patterns[t.parent[i]], true
}

// Children returns the patterns directly nested under id, in rank order.
func (t *Table) Children(id string) []*RoutePattern {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	out := make([]*RoutePattern, len(t.children[i]))
	for k, j := range t.children[i] {
		out[k] = t.patterns[j]
	}
	return out
}

// Ancestors returns the layout chain enclosing id, outermost first. The
// pattern itself is not included.
func (t *Table) Ancestors(id string) []*RoutePattern {
	i, ok := t.byID[id]
	if !ok {
		return nil
	}
	var chain []*RoutePattern
	for j := t.parent[i]; j >= 0; j = t.parent[j] {
		chain = append(chain, t.patterns[j])
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}
