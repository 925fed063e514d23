// Package router compiles route path patterns into an immutable, ranked
// table and resolves URL paths against it.
//
// # Pattern Syntax
//
// Patterns are "/"-separated. Each segment is one of:
//
//	posts          literal, matched after percent-decoding
//	$id            required param, one non-empty segment (alias {$id})
//	{-$lang}       optional param, zero or one segment, last only
//	$              wildcard, zero or more segments, last only (alias {$})
//	file{$}.txt    framed wildcard, one segment with literal prefix/suffix
//	(marketing)    route group, removed before matching
//	_auth          pathless layout, removed before matching
//
// Wildcard captures are stored under SplatParam ("_splat").
//
// # Ranking
//
// Patterns are compared position by position over their URL-visible segments:
//
//	literal > framed wildcard > param > optional param > wildcard
//
// When one pattern is a prefix of another, the exact leaf beats a longer
// pattern whose tail may match nothing (optional param or wildcard); a longer
// pattern whose tail requires a segment sorts first. Then route patterns beat
// layout patterns (those ending in a group or pathless segment), and finally
// the earlier declaration wins. Pass WithStrictAmbiguity to reject same-shape
// routes such as "/a/$x" and "/a/$y" instead.
//
// # Usage
//
//	table, err := router.Compile([]string{
//	    "/",
//	    "/posts",
//	    "/posts/$id",
//	    "/files/$",
//	})
//	if err != nil {
//	    // err is a *router.BuildErrors listing every problem.
//	}
//
//	m, ok := table.Match("/posts/42")
//	if ok {
//	    // m.ID() == "/posts/$id"
//	    // m.Params.Get("id") == "42"
//	}
//
// MatchPrefix falls back to the longest matching leading run of segments and
// reports the rest of the path in MatchResult.Remainder.
//
// # Layout Composition
//
// Each pattern's parent is the pattern whose declaration segments, groups and
// pathless layouts included, form the longest proper prefix. Ancestors returns
// that chain outermost first.
//
// # Hot Reload
//
// Registry publishes tables through an atomic pointer so a reload never
// exposes a half-built table to concurrent Match calls. Resolve returns the
// table a match ran against.
package router
