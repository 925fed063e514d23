package router

import (
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// RoutePattern is a parsed, ranked route pattern. It is immutable once the
// table that owns it has been built.
type RoutePattern struct {
	// ID is the pattern string as declared.
	ID string

	// Segments are all declaration segments, groups and pathless layouts
	// included. Used for parent/child composition.
	Segments []Segment

	// Matchable are the segments that take part in URL matching, in
	// declaration order.
	Matchable []Segment

	// Rank orders this pattern against the rest of its table.
	Rank Rank

	// literals holds the decoded (and, if configured, folded) text of each
	// literal position, indexed like Matchable.
	literals []string

	// framePrefix and frameSuffix are the decoded framing of a trailing
	// framed wildcard.
	framePrefix string
	frameSuffix string

	// params lists captured names in order.
	params []string

	// minSegs and maxSegs bound the number of URL segments the pattern can
	// consume. maxSegs is -1 when a wildcard makes it unbounded.
	minSegs int
	maxSegs int

	// decl is the declaration index; pos is the position in rank order.
	decl int
	pos  int
}

func newRoutePattern(id string, segments []Segment, decl int, fold bool) *RoutePattern {
	p := &RoutePattern{
		ID:       id,
		Segments: segments,
		decl:     decl,
	}

	for _, s := range segments {
		if s.Matchable() {
			p.Matchable = append(p.Matchable, s)
		}
	}

	p.literals = make([]string, len(p.Matchable))
	p.maxSegs = len(p.Matchable)
	for i, s := range p.Matchable {
		switch s.Kind {
		case KindLiteral:
			text := routepath.DecodeSegment(s.Text)
			if fold {
				text = foldCase(text)
			}
			p.literals[i] = text
			p.minSegs++
		case KindFramedWildcard:
			p.framePrefix = routepath.DecodeSegment(s.Prefix)
			p.frameSuffix = routepath.DecodeSegment(s.Suffix)
			if fold {
				p.framePrefix = foldCase(p.framePrefix)
				p.frameSuffix = foldCase(p.frameSuffix)
			}
			p.minSegs++
		case KindParam:
			p.minSegs++
		case KindWildcard:
			p.maxSegs = -1
		}
		if s.Dynamic() {
			p.params = append(p.params, s.Name)
		}
	}

	p.Rank = newRank(p.Matchable, !p.IsLayout(), decl)
	return p
}

// IsLayout reports whether the pattern ends in a route group or pathless
// layout segment. Layout patterns wrap children; they still match URLs but
// lose rank ties against route patterns.
func (p *RoutePattern) IsLayout() bool {
	if len(p.Segments) == 0 {
		return false
	}
	return !p.Segments[len(p.Segments)-1].Matchable()
}

// Path renders the URL-visible part of the pattern, e.g. "/posts/$id".
func (p *RoutePattern) Path() string {
	return JoinSegments(p.Matchable)
}

// ParamNames returns the captured param names in order. Wildcards appear as
// SplatParam.
func (p *RoutePattern) ParamNames() []string {
	return append([]string(nil), p.params...)
}

// Declaration returns the index at which the pattern was supplied.
func (p *RoutePattern) Declaration() int { return p.decl }

// accepts reports whether a path with n segments could match at all.
func (p *RoutePattern) accepts(n int) bool {
	return n >= p.minSegs && (p.maxSegs < 0 || n <= p.maxSegs)
}

// routeKey identifies the URL shape of a route pattern, names included.
func (p *RoutePattern) routeKey(fold bool) string {
	return shapeKey(p.Matchable, fold, true)
}

// declKey identifies the full declaration, names included.
func (p *RoutePattern) declKey(fold bool) string {
	return shapeKey(p.Segments, fold, true)
}

// classKey identifies the URL shape with param names erased.
func (p *RoutePattern) classKey(fold bool) string {
	return shapeKey(p.Matchable, fold, false)
}

func shapeKey(segments []Segment, fold, names bool) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		if !names && s.Dynamic() {
			s.Name = ""
		}
		switch s.Kind {
		case KindLiteral:
			s.Text = routepath.DecodeSegment(s.Text)
		case KindFramedWildcard:
			s.Prefix = routepath.DecodeSegment(s.Prefix)
			s.Suffix = routepath.DecodeSegment(s.Suffix)
		}
		b.WriteString(s.shapeKey(fold))
	}
	return b.String()
}

// foldCase maps text to a canonical case for case-insensitive comparison.
func foldCase(s string) string {
	return strings.ToLower(strings.ToUpper(s))
}
