package router

import "strings"

// SegmentKind tags the variant held by a Segment.
type SegmentKind uint8

const (
	// KindLiteral matches one path segment by exact text.
	KindLiteral SegmentKind = iota + 1

	// KindParam matches one non-empty path segment ($name).
	KindParam

	// KindOptionalParam matches zero or one path segment ({-$name}).
	KindOptionalParam

	// KindWildcard matches all remaining path segments ($ or {$}).
	KindWildcard

	// KindFramedWildcard matches one segment framed by a literal prefix and
	// suffix (prefix{$}suffix).
	KindFramedWildcard

	// KindGroup is a route group, (label). It never appears in URLs.
	KindGroup

	// KindPathless is a pathless layout, _label. It never appears in URLs.
	KindPathless
)

// SplatParam is the parameter name under which wildcard captures are stored.
const SplatParam = "_splat"

var kindNames = [...]string{
	KindLiteral:        "literal",
	KindParam:          "param",
	KindOptionalParam:  "optional",
	KindWildcard:       "wildcard",
	KindFramedWildcard: "framed-wildcard",
	KindGroup:          "group",
	KindPathless:       "pathless",
}

func (k SegmentKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// class returns the specificity class used for ranking. Higher is more specific.
func (k SegmentKind) class() int {
	switch k {
	case KindLiteral:
		return 5
	case KindFramedWildcard:
		return 4
	case KindParam:
		return 3
	case KindOptionalParam:
		return 2
	case KindWildcard:
		return 1
	default:
		return 0
	}
}

// Segment is one typed unit of a route pattern.
//
// Which fields are set depends on Kind:
//   - KindLiteral: Text
//   - KindParam, KindOptionalParam: Name
//   - KindWildcard: Name (always SplatParam)
//   - KindFramedWildcard: Prefix, Name (SplatParam), Suffix
//   - KindGroup, KindPathless: Text (the label)
type Segment struct {
	Kind   SegmentKind
	Text   string
	Name   string
	Prefix string
	Suffix string
}

// Literal returns a literal segment.
func Literal(text string) Segment { return Segment{Kind: KindLiteral, Text: text} }

// Param returns a required parameter segment.
func Param(name string) Segment { return Segment{Kind: KindParam, Name: name} }

// OptionalParam returns an optional parameter segment.
func OptionalParam(name string) Segment { return Segment{Kind: KindOptionalParam, Name: name} }

// Wildcard returns a bare wildcard segment.
func Wildcard() Segment { return Segment{Kind: KindWildcard, Name: SplatParam} }

// FramedWildcard returns a wildcard framed by prefix and suffix.
func FramedWildcard(prefix, suffix string) Segment {
	return Segment{Kind: KindFramedWildcard, Prefix: prefix, Name: SplatParam, Suffix: suffix}
}

// Group returns a route group marker.
func Group(label string) Segment { return Segment{Kind: KindGroup, Text: label} }

// Pathless returns a pathless layout segment.
func Pathless(label string) Segment { return Segment{Kind: KindPathless, Text: label} }

// Matchable reports whether the segment takes part in URL matching.
func (s Segment) Matchable() bool {
	return s.Kind != KindGroup && s.Kind != KindPathless
}

// Dynamic reports whether the segment captures a value.
func (s Segment) Dynamic() bool {
	switch s.Kind {
	case KindParam, KindOptionalParam, KindWildcard, KindFramedWildcard:
		return true
	}
	return false
}

// String renders the segment in pattern syntax.
func (s Segment) String() string {
	switch s.Kind {
	case KindLiteral:
		return s.Text
	case KindParam:
		return "$" + s.Name
	case KindOptionalParam:
		return "{-$" + s.Name + "}"
	case KindWildcard:
		return "$"
	case KindFramedWildcard:
		return s.Prefix + "{$}" + s.Suffix
	case KindGroup:
		return "(" + s.Text + ")"
	case KindPathless:
		return "_" + s.Text
	default:
		return "<invalid>"
	}
}

// shapeKey renders a segment for structural comparison: names are kept, and
// literals are folded when fold is set.
func (s Segment) shapeKey(fold bool) string {
	switch s.Kind {
	case KindLiteral:
		if fold {
			return "L:" + foldCase(s.Text)
		}
		return "L:" + s.Text
	case KindFramedWildcard:
		if fold {
			return "F:" + foldCase(s.Prefix) + "\x00" + foldCase(s.Suffix)
		}
		return "F:" + s.Prefix + "\x00" + s.Suffix
	default:
		return s.Kind.String() + ":" + s.Name + s.Text
	}
}

// JoinSegments renders segments as a pattern path.
func JoinSegments(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}
