package router

import (
	"sort"
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// ValueKind tells the variants of a captured Value apart.
type ValueKind uint8

const (
	// ValueString is a single decoded segment captured by a param.
	ValueString ValueKind = iota + 1

	// ValueSplat is a wildcard capture spanning zero or more segments.
	ValueSplat

	// ValueAbsent marks an optional param that matched no segment. It is
	// distinct from an empty string.
	ValueAbsent
)

// Value is a captured route parameter.
type Value struct {
	kind     ValueKind
	text     string
	raw      string
	segments []string
}

// Str returns a string value.
func Str(s string) Value {
	return Value{kind: ValueString, text: s, raw: routepath.EncodeSegment(s)}
}

// Splat returns a wildcard value made of decoded segments.
func Splat(segments ...string) Value {
	raw := make([]string, len(segments))
	for i, s := range segments {
		raw[i] = routepath.EncodeSegment(s)
	}
	return Value{
		kind:     ValueSplat,
		text:     routepath.JoinSplat(segments),
		raw:      routepath.JoinSplat(raw),
		segments: segments,
	}
}

// SplatPath returns a wildcard value from a slash-separated sub-path.
func SplatPath(path string) Value {
	return Splat(routepath.SplitSplat(path)...)
}

// Absent returns the marker for an optional param that matched nothing.
func Absent() Value {
	return Value{kind: ValueAbsent}
}

// capturedSplat builds a splat from the matcher's raw and decoded segments.
func capturedSplat(raw, decoded []string) Value {
	return Value{
		kind:     ValueSplat,
		text:     routepath.JoinSplat(decoded),
		raw:      routepath.JoinSplat(raw),
		segments: decoded,
	}
}

// Kind returns the variant of v. The zero Value has kind 0.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether v is the optional-param absence marker.
func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

// String returns the decoded text. Splats are joined with "/"; an absent value
// yields "".
func (v Value) String() string { return v.text }

// Raw returns the value in its original encoded form. For splats the raw
// segments are rejoined with "/", so the result is a valid sub-path.
func (v Value) Raw() string { return v.raw }

// Segments returns the decoded segments of a splat, or the single value of a
// string param. Absent values have none.
func (v Value) Segments() []string {
	switch v.kind {
	case ValueSplat:
		return v.segments
	case ValueString:
		return []string{v.text}
	}
	return nil
}

// Params maps param names to captured values.
type Params map[string]Value

// Get returns the decoded value of a param. The boolean is false when the param
// was not captured or is absent.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[name]
	if !ok || v.kind == ValueAbsent || v.kind == 0 {
		return "", false
	}
	return v.text, true
}

// Has reports whether name was captured with a present value.
func (p Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Splat returns the wildcard capture, if any.
func (p Params) Splat() (Value, bool) {
	v, ok := p[SplatParam]
	return v, ok
}

// Strings flattens the params to decoded strings, omitting absent values.
func (p Params) Strings() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		if v.kind == ValueAbsent {
			continue
		}
		out[k] = v.text
	}
	return out
}

// String renders params deterministically for logs and diagnostics.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		if p[k].kind == ValueAbsent {
			b.WriteString("<absent>")
			continue
		}
		b.WriteString(p[k].text)
	}
	b.WriteByte('}')
	return b.String()
}
