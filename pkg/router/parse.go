package router

import "strings"

// Parse tokenizes a raw route pattern into its declaration segments.
//
// Pattern grammar, per "/"-separated segment:
//
//	about          literal
//	$id            required param (also {$id})
//	{-$lang}       optional param, last matchable segment only
//	$              wildcard (also {$}), last segment only
//	file{$}.txt    framed wildcard: one segment with a literal prefix/suffix
//	(marketing)    route group, not part of the URL
//	_auth          pathless layout, not part of the URL
//
// Leading, trailing and repeated slashes are ignored. Every syntax error in
// the pattern is reported, as a ParseErrors value.
func Parse(raw string) ([]Segment, error) {
	segments, _, errs := parsePattern(raw)
	if len(errs) > 0 {
		return nil, errs
	}
	return segments, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(raw string) []Segment {
	segments, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return segments
}

// parsePattern returns the segments, the byte offset of each segment in raw,
// and all errors found.
func parsePattern(raw string) ([]Segment, []int, ParseErrors) {
	var (
		segments []Segment
		offsets  []int
		errs     ParseErrors
	)

	for i := 0; i < len(raw); {
		if raw[i] == '/' {
			i++
			continue
		}
		end := strings.IndexByte(raw[i:], '/')
		if end < 0 {
			end = len(raw)
		} else {
			end += i
		}

		seg, perr := parseSegment(raw[i:end])
		if perr != nil {
			perr.Pattern = raw
			perr.Position += i
			errs = append(errs, perr)
		}
		segments = append(segments, seg)
		offsets = append(offsets, i)
		i = end
	}

	errs = append(errs, checkStructure(raw, segments, offsets)...)
	return segments, offsets, errs
}

// parseSegment classifies a single segment. On error the returned segment is
// still usable for structural checks; the error position is relative to the
// segment start.
func parseSegment(part string) (Segment, *ParseError) {
	if len(part) >= 2 && part[0] == '(' && part[len(part)-1] == ')' {
		label := part[1 : len(part)-1]
		if label == "" {
			return Group(label), &ParseError{Reason: ReasonEmptyGroupLabel}
		}
		return Group(label), nil
	}

	if part == "$" {
		return Wildcard(), nil
	}

	if n := strings.Count(part, "{$}"); n > 0 {
		prefix, suffix, _ := strings.Cut(part, "{$}")
		if n > 1 {
			return FramedWildcard(prefix, suffix), &ParseError{Reason: ReasonMultipleWildcardsInSegment}
		}
		for _, frame := range []struct {
			text   string
			offset int
		}{{prefix, 0}, {suffix, len(prefix) + 3}} {
			if open, name, ok := braceToken(frame.text, "{-$"); ok {
				return FramedWildcard(prefix, suffix), &ParseError{Reason: ReasonFramedOptionalParam, Name: name, Position: frame.offset + open}
			}
			if open, name, ok := braceToken(frame.text, "{$"); ok {
				return FramedWildcard(prefix, suffix), &ParseError{Reason: ReasonFramedParam, Name: name, Position: frame.offset + open}
			}
		}
		if prefix == "" && suffix == "" {
			return Wildcard(), nil
		}
		return FramedWildcard(prefix, suffix), nil
	}

	if open, name, ok := braceToken(part, "{-$"); ok {
		seg := OptionalParam(name)
		if open != 0 || open+len(name)+4 != len(part) {
			return seg, &ParseError{Reason: ReasonFramedOptionalParam, Name: name, Position: open}
		}
		if !validParamName(name) {
			return seg, &ParseError{Reason: ReasonInvalidParamName, Name: name, Position: open + 3}
		}
		return seg, nil
	}

	if open, name, ok := braceToken(part, "{$"); ok {
		seg := Param(name)
		if open != 0 || open+len(name)+3 != len(part) {
			return seg, &ParseError{Reason: ReasonFramedParam, Name: name, Position: open}
		}
		if !validParamName(name) {
			return seg, &ParseError{Reason: ReasonInvalidParamName, Name: name, Position: open + 2}
		}
		return seg, nil
	}

	if part[0] == '$' {
		name := part[1:]
		if !validParamName(name) {
			return Param(name), &ParseError{Reason: ReasonInvalidParamName, Name: name, Position: 1}
		}
		return Param(name), nil
	}

	if part[0] == '_' && len(part) > 1 {
		return Pathless(part[1:]), nil
	}

	return Literal(part), nil
}

// braceToken finds opener (e.g. "{$") followed by a closing brace and returns
// the offset of the opener and the text between them.
func braceToken(part, opener string) (int, string, bool) {
	open := strings.Index(part, opener)
	if open < 0 {
		return 0, "", false
	}
	rest := part[open+len(opener):]
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return 0, "", false
	}
	return open, rest[:end], true
}

// checkStructure enforces the placement rules that span segments.
func checkStructure(raw string, segments []Segment, offsets []int) ParseErrors {
	var errs ParseErrors
	seen := make(map[string]bool)
	optionalAt := -1

	for i, seg := range segments {
		switch seg.Kind {
		case KindWildcard, KindFramedWildcard:
			if i != len(segments)-1 {
				errs = append(errs, &ParseError{Pattern: raw, Reason: ReasonWildcardNotLast, Position: offsets[i]})
			}
		case KindOptionalParam:
			if optionalAt < 0 {
				optionalAt = i
			}
		}

		if optionalAt >= 0 && i > optionalAt && seg.Matchable() {
			errs = append(errs, &ParseError{
				Pattern:  raw,
				Reason:   ReasonOptionalNotTrailing,
				Position: offsets[optionalAt],
				Name:     segments[optionalAt].Name,
			})
			optionalAt = len(segments) // report once
		}

		if seg.Dynamic() && seg.Name != "" {
			if seen[seg.Name] {
				errs = append(errs, &ParseError{Pattern: raw, Reason: ReasonDuplicateParamName, Position: offsets[i], Name: seg.Name})
			}
			seen[seg.Name] = true
		}
	}
	return errs
}

// validParamName reports whether name matches [A-Za-z_][A-Za-z0-9_]*.
func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
