package router

import (
	"strconv"
	"strings"
)

// Segment class weights. The end of a pattern ranks between a required param
// and an optional param: at equal prefixes an exact leaf outranks a pattern
// whose remaining segments may match nothing (optional param or wildcard),
// while a pattern that still requires a segment sorts before the leaf.
const (
	weightWildcard = 2 * (iota + 1)
	weightOptional
	weightEnd
	weightParam
	weightFramed
	weightLiteral
)

// Framing precedence for framed wildcards: both sides framed, then prefix
// only, then suffix only. Longer framing breaks remaining ties.
const (
	framingNone = iota
	framingSuffix
	framingPrefix
	framingBoth
)

// score is the comparable weight of one matchable position.
type score struct {
	weight    int
	framing   int
	prefixLen int
	suffixLen int
}

func scoreOf(s Segment) score {
	switch s.Kind {
	case KindLiteral:
		return score{weight: weightLiteral}
	case KindFramedWildcard:
		sc := score{weight: weightFramed, prefixLen: len(s.Prefix), suffixLen: len(s.Suffix)}
		switch {
		case s.Prefix != "" && s.Suffix != "":
			sc.framing = framingBoth
		case s.Prefix != "":
			sc.framing = framingPrefix
		case s.Suffix != "":
			sc.framing = framingSuffix
		}
		return sc
	case KindParam:
		return score{weight: weightParam}
	case KindOptionalParam:
		return score{weight: weightOptional}
	case KindWildcard:
		return score{weight: weightWildcard}
	default:
		panic("router: cannot rank segment kind " + s.Kind.String())
	}
}

func (a score) compare(b score) int {
	switch {
	case a.weight != b.weight:
		return cmpInt(a.weight, b.weight)
	case a.framing != b.framing:
		return cmpInt(a.framing, b.framing)
	case a.prefixLen != b.prefixLen:
		return cmpInt(a.prefixLen, b.prefixLen)
	default:
		return cmpInt(a.suffixLen, b.suffixLen)
	}
}

// Rank orders patterns by specificity. It is a tuple compared
// lexicographically: per-position segment scores, then route before layout,
// then earlier declaration.
type Rank struct {
	scores []score
	leaf   bool
	decl   int
}

func newRank(matchable []Segment, leaf bool, decl int) Rank {
	scores := make([]score, len(matchable))
	for i, s := range matchable {
		scores[i] = scoreOf(s)
	}
	return Rank{scores: scores, leaf: leaf, decl: decl}
}

func (r Rank) at(i int) score {
	if i < len(r.scores) {
		return r.scores[i]
	}
	return score{weight: weightEnd}
}

// compareShape compares everything but declaration order.
func (r Rank) compareShape(o Rank) int {
	n := max(len(r.scores), len(o.scores))
	for i := 0; i < n; i++ {
		if c := r.at(i).compare(o.at(i)); c != 0 {
			return c
		}
	}
	if r.leaf != o.leaf {
		if r.leaf {
			return 1
		}
		return -1
	}
	return 0
}

// Compare returns a positive number when r is more specific than o, negative
// when less, and zero only when r and o are the same rank.
func (r Rank) Compare(o Rank) int {
	if c := r.compareShape(o); c != 0 {
		return c
	}
	// Earlier declaration wins.
	return cmpInt(o.decl, r.decl)
}

// Declaration returns the declaration index used as the final tie-break.
func (r Rank) Declaration() int { return r.decl }

// String renders the rank for diagnostics, e.g. "L.P.W|route#3".
func (r Rank) String() string {
	var b strings.Builder
	for i, s := range r.scores {
		if i > 0 {
			b.WriteByte('.')
		}
		switch s.weight {
		case weightLiteral:
			b.WriteByte('L')
		case weightFramed:
			b.WriteByte('F')
		case weightParam:
			b.WriteByte('P')
		case weightOptional:
			b.WriteByte('O')
		case weightWildcard:
			b.WriteByte('W')
		}
	}
	if r.leaf {
		b.WriteString("|route#")
	} else {
		b.WriteString("|layout#")
	}
	b.WriteString(strconv.Itoa(r.decl))
	return b.String()
}

func cmpInt(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
