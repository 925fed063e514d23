package router

import (
	"errors"
	"fmt"
	"strings"
)

// Interpolation errors.
var (
	ErrUnknownPattern = errors.New("unknown pattern")
	ErrMissingParam   = errors.New("missing param")
	ErrEmptyParam     = errors.New("empty param value")
)

// ParseReason categorizes pattern syntax errors.
type ParseReason string

const (
	// ReasonInvalidParamName: a param name is not [A-Za-z_][A-Za-z0-9_]*.
	// Example: $1st, {-$user-id}
	ReasonInvalidParamName ParseReason = "INVALID_PARAM_NAME"

	// ReasonMultipleWildcardsInSegment: more than one {$} in one segment.
	// Example: a{$}b{$}
	ReasonMultipleWildcardsInSegment ParseReason = "MULTIPLE_WILDCARDS_IN_SEGMENT"

	// ReasonWildcardNotLast: a wildcard is followed by another segment.
	// Example: /files/$/edit
	ReasonWildcardNotLast ParseReason = "WILDCARD_NOT_LAST"

	// ReasonOptionalNotTrailing: an optional param is followed by a matchable segment.
	// Example: /{-$lang}/docs
	ReasonOptionalNotTrailing ParseReason = "OPTIONAL_NOT_TRAILING"

	// ReasonDuplicateParamName: the same param name is captured twice.
	// Example: /$id/edit/$id
	ReasonDuplicateParamName ParseReason = "DUPLICATE_PARAM_NAME"

	// ReasonEmptyGroupLabel: a route group without a label.
	// Example: /()/about
	ReasonEmptyGroupLabel ParseReason = "EMPTY_GROUP_LABEL"

	// ReasonFramedOptionalParam: an optional param shares its segment with text.
	// Example: /v{-$version}
	ReasonFramedOptionalParam ParseReason = "FRAMED_OPTIONAL_PARAM"

	// ReasonFramedParam: a named param shares its segment with text.
	// Example: /user-{$id}
	ReasonFramedParam ParseReason = "FRAMED_PARAM"
)

var reasonText = map[ParseReason]string{
	ReasonInvalidParamName:           "invalid param name",
	ReasonMultipleWildcardsInSegment: "multiple wildcards in one segment",
	ReasonWildcardNotLast:            "wildcard must be the last segment",
	ReasonOptionalNotTrailing:        "optional param must be the last matchable segment",
	ReasonDuplicateParamName:         "duplicate param name",
	ReasonEmptyGroupLabel:            "empty route group label",
	ReasonFramedOptionalParam:        "optional param must occupy the whole segment",
	ReasonFramedParam:                "named param must occupy the whole segment",
}

// Describe returns a short human-readable description of the reason.
func (r ParseReason) Describe() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return string(r)
}

// ParseError is a syntax error in one route pattern.
type ParseError struct {
	// Pattern is the raw pattern as declared.
	Pattern string

	// Reason is the error category.
	Reason ParseReason

	// Position is the byte offset of the offending segment in Pattern.
	Position int

	// Name is the offending param name, when there is one.
	Name string
}

func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("pattern %q: %s %q at offset %d", e.Pattern, e.Reason.Describe(), e.Name, e.Position)
	}
	return fmt.Sprintf("pattern %q: %s at offset %d", e.Pattern, e.Reason.Describe(), e.Position)
}

// ParseErrors holds every syntax error found in a single pattern.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	switch len(e) {
	case 0:
		return "no parse errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes every member to errors.Is and errors.As.
func (e ParseErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// DuplicatePatternError reports two patterns that match exactly the same paths.
// It is fatal regardless of tie-break policy.
type DuplicatePatternError struct {
	IDA string
	IDB string
}

func (e *DuplicatePatternError) Error() string {
	if e.IDA == e.IDB {
		return fmt.Sprintf("duplicate pattern %q", e.IDA)
	}
	return fmt.Sprintf("duplicate pattern: %q and %q resolve to the same route", e.IDA, e.IDB)
}

// AmbiguousRankError reports two patterns with equal rank that can match the
// same path. It is only raised in strict mode; otherwise declaration order
// decides.
type AmbiguousRankError struct {
	IDA string
	IDB string
}

func (e *AmbiguousRankError) Error() string {
	return fmt.Sprintf("ambiguous patterns: %q and %q have equal rank and overlap", e.IDA, e.IDB)
}

// BuildErrors wraps every error found while compiling a pattern set.
type BuildErrors struct {
	Errors []error
}

func (e *BuildErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no build errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route build errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes every member to errors.Is and errors.As.
func (e *BuildErrors) Unwrap() []error {
	return e.Errors
}
