package routepath

import (
	"net/url"
	"strings"
)

// Normalize returns path with a leading slash, duplicate slashes collapsed and
// the trailing slash removed. The root path stays "/".
func Normalize(path string) string {
	segments := Split(path)
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

// Split returns the raw (still encoded) segments of path. Leading, trailing and
// duplicate slashes never produce empty segments, so the root path yields nil.
func Split(path string) []string {
	if path == "" || path == "/" {
		return nil
	}
	return strings.FieldsFunc(path, isSlash)
}

func isSlash(r rune) bool { return r == '/' }

// DecodeSegment percent-decodes a single path segment. Decoding is lenient:
// malformed escapes such as "%G1" or a trailing "%" are kept verbatim so that
// bad client input degrades to a literal mismatch instead of an error.
// A "+" is not a space in paths and is left alone.
func DecodeSegment(raw string) string {
	i := strings.IndexByte(raw, '%')
	if i < 0 {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	b.WriteString(raw[:i])
	for ; i < len(raw); i++ {
		c := raw[i]
		if c == '%' && i+2 < len(raw) && isHexDigit(raw[i+1]) && isHexDigit(raw[i+2]) {
			b.WriteByte(unhex(raw[i+1])<<4 | unhex(raw[i+2]))
			i += 2
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SliceDecoded returns the part of raw that decodes to
// DecodeSegment(raw)[start:end], keeping the client's original escapes.
func SliceDecoded(raw string, start, end int) string {
	rawStart, rawEnd := -1, len(raw)
	n := 0
	for i := 0; i < len(raw); n++ {
		if n == start {
			rawStart = i
		}
		if n == end {
			rawEnd = i
			break
		}
		if raw[i] == '%' && i+2 < len(raw) && isHexDigit(raw[i+1]) && isHexDigit(raw[i+2]) {
			i += 3
		} else {
			i++
		}
	}
	if rawStart < 0 {
		rawStart = rawEnd
	}
	return raw[rawStart:rawEnd]
}

// EncodeSegment escapes text so that it survives as exactly one path segment:
// slashes and other reserved characters are percent-encoded.
func EncodeSegment(text string) string {
	return url.PathEscape(text)
}

// JoinSplat joins wildcard segments back into a sub-path.
func JoinSplat(segments []string) string {
	return strings.Join(segments, "/")
}

// SplitSplat splits a splat value into its segments. Empty segments are
// dropped, matching how the matcher collapses duplicate slashes.
func SplitSplat(value string) []string {
	return Split(value)
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
