package router

import (
	"fmt"
	"sort"
)

// Builder collects raw patterns in declaration order and compiles them into a
// Table. A Builder is not safe for concurrent use.
type Builder struct {
	opts options
	raw  []string
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: buildOptions(opts)}
}

// Add appends patterns. Their order is the declaration order used to break
// rank ties.
func (b *Builder) Add(raw ...string) *Builder {
	b.raw = append(b.raw, raw...)
	return b
}

// Len returns the number of patterns added so far.
func (b *Builder) Len() int { return len(b.raw) }

// Compile parses, ranks and indexes raw patterns in one step.
//
// On failure the error is a *BuildErrors listing every problem in the set and
// no table is returned.
//
// Example:
//
//	table, err := router.Compile([]string{"/", "/posts", "/posts/$id"})
//	if err != nil {
//	    return err
//	}
//	m, ok := table.Match("/posts/42")
func Compile(raw []string, opts ...Option) (*Table, error) {
	return NewBuilder(opts...).Add(raw...).Build()
}

// Build compiles every pattern added so far. It is atomic: either all
// patterns are valid and a table is returned, or a *BuildErrors is returned
// and nothing is built.
func (b *Builder) Build() (*Table, error) {
	fold := b.opts.fold
	var errs []error

	patterns := make([]*RoutePattern, 0, len(b.raw))
	seenID := make(map[string]bool, len(b.raw))
	routes := make(map[string]string)
	layouts := make(map[string]string)
	classes := make(map[string]string)

	for decl, raw := range b.raw {
		segments, _, perrs := parsePattern(raw)
		if len(perrs) > 0 {
			for _, perr := range perrs {
				errs = append(errs, perr)
			}
			continue
		}

		if seenID[raw] {
			errs = append(errs, &DuplicatePatternError{IDA: raw, IDB: raw})
			continue
		}
		seenID[raw] = true

		p := newRoutePattern(raw, segments, decl, fold)

		if p.IsLayout() {
			key := p.declKey(fold)
			if first, ok := layouts[key]; ok {
				errs = append(errs, &DuplicatePatternError{IDA: first, IDB: raw})
				continue
			}
			layouts[key] = raw
		} else {
			key := p.routeKey(fold)
			if first, ok := routes[key]; ok {
				errs = append(errs, &DuplicatePatternError{IDA: first, IDB: raw})
				continue
			}
			routes[key] = raw

			if b.opts.strict {
				class := p.classKey(fold)
				if first, ok := classes[class]; ok {
					errs = append(errs, &AmbiguousRankError{IDA: first, IDB: raw})
					continue
				}
				classes[class] = raw
			}
		}

		patterns = append(patterns, p)
	}

	if len(errs) > 0 {
		return nil, &BuildErrors{Errors: errs}
	}

	return newTable(patterns, fold), nil
}

// newTable sorts patterns into match order and builds the lookup indexes.
func newTable(patterns []*RoutePattern, fold bool) *Table {
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Rank.Compare(patterns[j].Rank) > 0
	})

	t := &Table{
		patterns: patterns,
		byID:     make(map[string]int, len(patterns)),
		parent:   make([]int, len(patterns)),
		children: make([][]int, len(patterns)),
		static:   make(map[string][]int),
		fold:     fold,
	}

	byDecl := make(map[string]int, len(patterns))
	for i, p := range patterns {
		p.pos = i
		t.byID[p.ID] = i
		byDecl[p.declKey(fold)] = i

		if len(p.Matchable) > 0 && p.Matchable[0].Kind == KindLiteral {
			key := p.literals[0]
			t.static[key] = append(t.static[key], i)
		} else {
			t.dynamic = append(t.dynamic, i)
		}
	}

	// Parent is the pattern whose declaration is the longest proper prefix.
	for i, p := range patterns {
		t.parent[i] = -1
		for n := len(p.Segments) - 1; n >= 0; n-- {
			if j, ok := byDecl[shapeKey(p.Segments[:n], fold, true)]; ok {
				t.parent[i] = j
				t.children[j] = append(t.children[j], i)
				break
			}
		}
	}

	t.verify()
	return t
}

// verify panics if the table breaks an invariant the matcher relies on. A
// failure here is a bug in the builder, never a user error.
func (t *Table) verify() {
	for i, p := range t.patterns {
		if i > 0 && t.patterns[i-1].Rank.Compare(p.Rank) <= 0 {
			panic(fmt.Sprintf("router: table not in rank order at %d: %q before %q",
				i, t.patterns[i-1].ID, p.ID))
		}
		for k, s := range p.Matchable {
			switch s.Kind {
			case KindWildcard, KindFramedWildcard, KindOptionalParam:
				if k != len(p.Matchable)-1 {
					panic(fmt.Sprintf("router: %s not last in %q", s.Kind, p.ID))
				}
			case KindLiteral, KindParam:
			default:
				panic(fmt.Sprintf("router: unmatchable segment %s in %q", s.Kind, p.ID))
			}
		}
	}
}
