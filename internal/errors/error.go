package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/routetable/pkg/router"
)

// Category represents the type of error.
type Category string

const (
	CategoryParse    Category = "parse"
	CategoryConflict Category = "conflict"
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryServer   Category = "server"
)

// Location points into a route pattern.
type Location struct {
	// Source names where the pattern came from, e.g. "routes.yaml:12".
	Source string `json:"source,omitempty"`

	// Pattern is the raw pattern text.
	Pattern string `json:"pattern"`

	// Offset is the byte offset of the offending segment in Pattern.
	Offset int `json:"offset"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Source != "" {
		return fmt.Sprintf("%s: %s", l.Source, l.Pattern)
	}
	return l.Pattern
}

// Error is a coded error with a pattern location and a fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (parse, conflict, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the offending pattern, if any.
	Location *Location

	// Related lists other patterns involved, e.g. the first of two duplicates.
	Related []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds the offending pattern to the error.
func (e *Error) WithLocation(pattern string, offset int) *Error {
	if e.Location == nil {
		e.Location = &Location{}
	}
	e.Location.Pattern = pattern
	e.Location.Offset = offset
	return e
}

// WithSource records where the pattern was declared.
func (e *Error) WithSource(source string) *Error {
	if e.Location == nil {
		e.Location = &Location{}
	}
	e.Location.Source = source
	return e
}

// WithRelated adds patterns that take part in the error.
func (e *Error) WithRelated(patterns ...string) *Error {
	e.Related = append(e.Related, patterns...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// parseCodes maps parse reasons to error codes.
var parseCodes = map[router.ParseReason]string{
	router.ReasonInvalidParamName:           "R001",
	router.ReasonMultipleWildcardsInSegment: "R002",
	router.ReasonWildcardNotLast:            "R003",
	router.ReasonOptionalNotTrailing:        "R004",
	router.ReasonDuplicateParamName:         "R005",
	router.ReasonEmptyGroupLabel:            "R006",
	router.ReasonFramedOptionalParam:        "R007",
	router.ReasonFramedParam:                "R008",
}

// FromBuildError expands a compile error into one coded Error per problem.
// Errors that are not route build errors are wrapped as R009.
func FromBuildError(err error) []*Error {
	if err == nil {
		return nil
	}

	var members []error
	var berr *router.BuildErrors
	var perrs router.ParseErrors
	switch {
	case stderrors.As(err, &berr):
		members = berr.Errors
	case stderrors.As(err, &perrs):
		for _, p := range perrs {
			members = append(members, p)
		}
	default:
		members = []error{err}
	}

	out := make([]*Error, 0, len(members))
	for _, m := range members {
		out = append(out, fromBuildMember(m))
	}
	return out
}

func fromBuildMember(err error) *Error {
	var (
		perr *router.ParseError
		dup  *router.DuplicatePatternError
		amb  *router.AmbiguousRankError
	)
	switch {
	case stderrors.As(err, &perr):
		code, ok := parseCodes[perr.Reason]
		if !ok {
			code = "R009"
		}
		e := New(code).WithLocation(perr.Pattern, perr.Position).Wrap(err)
		if perr.Name != "" {
			e.Message = fmt.Sprintf("%s: %q", e.Message, perr.Name)
		}
		return e
	case stderrors.As(err, &dup):
		e := New("R020").WithLocation(dup.IDB, 0).Wrap(err)
		if dup.IDA != dup.IDB {
			e.WithRelated(dup.IDA)
		}
		return e
	case stderrors.As(err, &amb):
		return New("R021").WithLocation(amb.IDB, 0).WithRelated(amb.IDA).Wrap(err)
	default:
		return New("R009").Wrap(err)
	}
}
