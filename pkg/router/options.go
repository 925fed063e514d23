package router

// Option configures how a pattern set is compiled.
type Option func(*options)

type options struct {
	// fold enables case-insensitive literal and framing comparison.
	fold bool

	// strict reports same-shape dynamic routes as AmbiguousRankError instead
	// of letting declaration order decide.
	strict bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithCaseInsensitive makes literal segments and wildcard framing match
// regardless of case. Duplicate detection folds literals too, so "/About" and
// "/about" conflict.
//
// Example:
//
//	table, err := router.Compile(patterns, router.WithCaseInsensitive())
func WithCaseInsensitive() Option {
	return func(o *options) {
		o.fold = true
	}
}

// WithStrictAmbiguity rejects route patterns that differ only in param names,
// such as "/a/$x" and "/a/$y", with an AmbiguousRankError. Without it the
// earlier declaration wins.
func WithStrictAmbiguity() Option {
	return func(o *options) {
		o.strict = true
	}
}
