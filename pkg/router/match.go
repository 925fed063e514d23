package router

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// MatchResult is the outcome of a successful match.
type MatchResult struct {
	// Pattern is the matched route pattern.
	Pattern *RoutePattern

	// Params holds captured values. Wildcards are stored under SplatParam.
	Params Params

	// Remainder is the raw path left unmatched by MatchPrefix, without a
	// leading slash. Always empty for Match.
	Remainder string
}

// ID returns the matched pattern's id.
func (m *MatchResult) ID() string { return m.Pattern.ID }

// Match resolves path to the most specific pattern that matches it exactly.
// path is a URL path without query or fragment; empty, repeated and trailing
// slashes are ignored. A miss returns (nil, false) and is not an error.
func (t *Table) Match(path string) (*MatchResult, bool) {
	raw, decoded := splitDecoded(path)
	return t.match(raw, decoded)
}

// MatchPrefix is a fuzzy Match: when no pattern matches the whole path, the
// longest leading run of segments that some pattern matches wins, and the
// unconsumed raw segments are returned in Remainder. The root pattern never
// matches as a prefix.
func (t *Table) MatchPrefix(path string) (*MatchResult, bool) {
	raw, decoded := splitDecoded(path)
	for n := len(raw); n > 0; n-- {
		if m, ok := t.match(raw[:n], decoded[:n]); ok {
			m.Remainder = routepath.JoinSplat(raw[n:])
			return m, true
		}
	}
	if len(raw) == 0 {
		return t.match(nil, nil)
	}
	return nil, false
}

func splitDecoded(path string) (raw, decoded []string) {
	raw = routepath.Split(path)
	decoded = make([]string, len(raw))
	for i, s := range raw {
		decoded[i] = routepath.DecodeSegment(s)
	}
	return raw, decoded
}

func (t *Table) match(raw, decoded []string) (*MatchResult, bool) {
	var bucket []int
	if len(decoded) > 0 {
		key := decoded[0]
		if t.fold {
			key = foldCase(key)
		}
		bucket = t.static[key]
	}

	// Merge the static bucket with the dynamic list; both are in rank order.
	i, j := 0, 0
	for i < len(bucket) || j < len(t.dynamic) {
		var next int
		if j >= len(t.dynamic) || (i < len(bucket) && bucket[i] < t.dynamic[j]) {
			next = bucket[i]
			i++
		} else {
			next = t.dynamic[j]
			j++
		}

		p := t.patterns[next]
		if !p.accepts(len(decoded)) || !p.matches(decoded, t.fold) {
			continue
		}
		return &MatchResult{Pattern: p, Params: p.capture(raw, decoded, t.fold)}, true
	}
	return nil, false
}

// matches checks every matchable segment against the decoded input. The
// caller has already checked the segment count with accepts.
func (p *RoutePattern) matches(decoded []string, fold bool) bool {
	last := len(p.Matchable) - 1
	for i, s := range p.Matchable {
		switch s.Kind {
		case KindLiteral:
			if i >= len(decoded) || !equalText(decoded[i], p.literals[i], fold) {
				return false
			}
		case KindParam:
			if i >= len(decoded) || decoded[i] == "" {
				return false
			}
		case KindOptionalParam:
			if i != last {
				panic(fmt.Sprintf("router: optional param not last in %q", p.ID))
			}
		case KindWildcard:
			if i != last {
				panic(fmt.Sprintf("router: wildcard not last in %q", p.ID))
			}
		case KindFramedWildcard:
			if i != last {
				panic(fmt.Sprintf("router: wildcard not last in %q", p.ID))
			}
			if i >= len(decoded) {
				return false
			}
			if _, _, ok := p.unframe(decoded[i], fold); !ok {
				return false
			}
		default:
			panic(fmt.Sprintf("router: cannot match %s segment in %q", s.Kind, p.ID))
		}
	}
	return true
}

// capture extracts param values after a successful match.
func (p *RoutePattern) capture(raw, decoded []string, fold bool) Params {
	if len(p.params) == 0 {
		return Params{}
	}
	params := make(Params, len(p.params))
	for i, s := range p.Matchable {
		switch s.Kind {
		case KindParam:
			params[s.Name] = Value{kind: ValueString, text: decoded[i], raw: raw[i]}
		case KindOptionalParam:
			if i < len(decoded) {
				params[s.Name] = Value{kind: ValueString, text: decoded[i], raw: raw[i]}
			} else {
				params[s.Name] = Absent()
			}
		case KindWildcard:
			if i < len(decoded) {
				params[s.Name] = capturedSplat(raw[i:], decoded[i:])
			} else {
				params[s.Name] = capturedSplat(nil, nil)
			}
		case KindFramedWildcard:
			start, end, _ := p.unframe(decoded[i], fold)
			params[s.Name] = capturedSplat(
				[]string{routepath.SliceDecoded(raw[i], start, end)},
				[]string{decoded[i][start:end]},
			)
		}
	}
	return params
}

// unframe locates the text between the framing of a trailing framed wildcard
// and returns its byte offsets in text. Prefix and suffix may not overlap.
func (p *RoutePattern) unframe(text string, fold bool) (int, int, bool) {
	pre, suf := p.framePrefix, p.frameSuffix
	if !fold {
		if len(text) < len(pre)+len(suf) || !strings.HasPrefix(text, pre) || !strings.HasSuffix(text, suf) {
			return 0, 0, false
		}
		return len(pre), len(text) - len(suf), true
	}

	start, ok := foldedPrefixLen(text, pre)
	if !ok {
		return 0, 0, false
	}
	n, ok := foldedSuffixLen(text[start:], suf)
	if !ok {
		return 0, 0, false
	}
	return start, len(text) - n, true
}

// foldedPrefixLen reports whether foldCase(text) starts with the folded
// string prefix and returns how many bytes of text produce it.
func foldedPrefixLen(text, prefix string) (int, bool) {
	n := 0
	for i := 0; n < len(prefix); {
		if i >= len(text) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		f := foldCase(text[i : i+size])
		if !strings.HasPrefix(prefix[n:], f) {
			return 0, false
		}
		n += len(f)
		i += size
		if n == len(prefix) {
			return i, true
		}
	}
	return 0, true
}

// foldedSuffixLen is foldedPrefixLen from the end of text.
func foldedSuffixLen(text, suffix string) (int, bool) {
	n := 0
	for i := len(text); n < len(suffix); {
		if i <= 0 {
			return 0, false
		}
		_, size := utf8.DecodeLastRuneInString(text[:i])
		f := foldCase(text[i-size : i])
		if !strings.HasSuffix(suffix[:len(suffix)-n], f) {
			return 0, false
		}
		n += len(f)
		i -= size
		if n == len(suffix) {
			return len(text) - i, true
		}
	}
	return 0, true
}

// equalText compares input with a literal that was folded at compile time
// when fold is set.
func equalText(input, literal string, fold bool) bool {
	if fold {
		return foldCase(input) == literal
	}
	return input == literal
}
