package routepath

import (
	"fmt"
	"strings"
)

// TrailingSlash selects how ResolvePath treats a trailing slash.
type TrailingSlash int

const (
	// TrailingSlashNever strips the trailing slash. This is the default.
	TrailingSlashNever TrailingSlash = iota

	// TrailingSlashAlways adds a trailing slash to every non-root path.
	TrailingSlashAlways

	// TrailingSlashPreserve keeps a trailing slash only when the destination
	// had one.
	TrailingSlashPreserve
)

func (t TrailingSlash) String() string {
	switch t {
	case TrailingSlashNever:
		return "never"
	case TrailingSlashAlways:
		return "always"
	case TrailingSlashPreserve:
		return "preserve"
	default:
		return fmt.Sprintf("TrailingSlash(%d)", int(t))
	}
}

// ParseTrailingSlash parses "never", "always" or "preserve". The empty string
// is "never".
func ParseTrailingSlash(s string) (TrailingSlash, error) {
	switch strings.ToLower(s) {
	case "", "never":
		return TrailingSlashNever, nil
	case "always":
		return TrailingSlashAlways, nil
	case "preserve":
		return TrailingSlashPreserve, nil
	default:
		return TrailingSlashNever, fmt.Errorf("routepath: unknown trailing slash policy %q", s)
	}
}

// ResolvePath resolves the destination to against base. Both are treated as
// directories:
//
//	/a/b/c + ./d  = /a/b/c/d
//	/a/b/c + ../d = /a/b/d
//	/a/b/c + d/e  = /a/b/c/d/e
//	/a/b/c + /d   = /d
//
// ".." never climbs above the root. Segments are kept as written, so pattern
// text such as "$id" resolves like any other segment.
func ResolvePath(base, to string, trailing TrailingSlash) string {
	var segments []string
	if !strings.HasPrefix(to, "/") {
		segments = Split(base)
	}

	for _, seg := range Split(to) {
		switch seg {
		case ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return "/"
	}
	path := "/" + strings.Join(segments, "/")
	switch trailing {
	case TrailingSlashAlways:
		path += "/"
	case TrailingSlashPreserve:
		if strings.HasSuffix(to, "/") || (to == "" && strings.HasSuffix(base, "/")) {
			path += "/"
		}
	}
	return path
}
