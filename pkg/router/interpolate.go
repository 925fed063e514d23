package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// Interpolate builds a concrete path for the pattern declared as id.
//
// Param values are percent-encoded so that each occupies exactly one segment.
// Wildcards accept a splat (each segment encoded, slashes kept) or a string
// treated as a sub-path. Absent or empty optional params drop their segment.
// Matching the result yields id with the same values.
//
// Example:
//
//	path, err := table.Interpolate("/posts/$id", router.Params{"id": router.Str("hello world")})
//	// path == "/posts/hello%20world"
func (t *Table) Interpolate(id string, params Params) (string, error) {
	p, ok := t.Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}
	return p.Interpolate(params)
}

// Interpolate builds a concrete path for p. See Table.Interpolate.
func (p *RoutePattern) Interpolate(params Params) (string, error) {
	var b strings.Builder
	for _, s := range p.Matchable {
		v := params[s.Name]

		switch s.Kind {
		case KindLiteral:
			b.WriteByte('/')
			b.WriteString(s.Text)

		case KindParam:
			if v.kind == 0 || v.kind == ValueAbsent {
				return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, s.Name, p.ID)
			}
			if v.text == "" {
				return "", fmt.Errorf("%w: %q in %q", ErrEmptyParam, s.Name, p.ID)
			}
			b.WriteByte('/')
			b.WriteString(segmentRaw(v))

		case KindOptionalParam:
			if v.kind == 0 || v.kind == ValueAbsent || v.text == "" {
				continue
			}
			b.WriteByte('/')
			b.WriteString(segmentRaw(v))

		case KindWildcard:
			if v.kind == ValueString {
				v = SplatPath(v.text)
			}
			if raw := v.Raw(); raw != "" {
				b.WriteByte('/')
				b.WriteString(raw)
			}

		case KindFramedWildcard:
			if v.kind == 0 || v.kind == ValueAbsent {
				return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, s.Name, p.ID)
			}
			b.WriteByte('/')
			b.WriteString(s.Prefix)
			b.WriteString(routepath.EncodeSegment(v.text))
			b.WriteString(s.Suffix)
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// segmentRaw returns the encoded form of a single-segment value. Splats passed
// for a plain param are flattened into one segment.
func segmentRaw(v Value) string {
	if v.kind == ValueString && v.raw != "" {
		return v.raw
	}
	return routepath.EncodeSegment(v.text)
}
