package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Pattern Syntax Errors (R001-R009)
	// ============================================

	"R001": {
		Category:   CategoryParse,
		Message:    "Invalid param name",
		Detail:     "Param names must start with a letter or underscore and contain only letters, digits and underscores.",
		Suggestion: "Rename the param, e.g. $user-id becomes $userId",
	},
	"R002": {
		Category:   CategoryParse,
		Message:    "Multiple wildcards in one segment",
		Detail:     "A segment may contain at most one {$} token.",
		Suggestion: "Keep one {$} per segment",
	},
	"R003": {
		Category:   CategoryParse,
		Message:    "Wildcard is not the last segment",
		Detail:     "A wildcard consumes every remaining segment, so nothing may follow it.",
		Suggestion: "Move the wildcard to the end of the pattern",
	},
	"R004": {
		Category:   CategoryParse,
		Message:    "Optional param is not trailing",
		Detail:     "An optional param may only be the last URL-visible segment of a pattern.",
		Suggestion: "Declare one pattern with the segment and one without it",
	},
	"R005": {
		Category:   CategoryParse,
		Message:    "Duplicate param name",
		Detail:     "Each param name may be captured once per pattern.",
		Suggestion: "Give each param a distinct name",
	},
	"R006": {
		Category:   CategoryParse,
		Message:    "Empty route group label",
		Detail:     "Route groups need a label between the parentheses.",
		Suggestion: "Name the group, e.g. (marketing)",
	},
	"R007": {
		Category:   CategoryParse,
		Message:    "Optional param shares its segment",
		Detail:     "An optional param must occupy a whole segment.",
		Suggestion: "Move the surrounding text into its own segment",
	},
	"R008": {
		Category:   CategoryParse,
		Message:    "Named param shares its segment",
		Detail:     "A named param must occupy a whole segment. Use prefix{$}suffix to capture part of a segment.",
		Suggestion: "Use a framed wildcard such as user-{$}",
	},
	"R009": {
		Category: CategoryParse,
		Message:  "Invalid route pattern",
		Detail:   "The pattern could not be compiled.",
	},

	// ============================================
	// Conflict Errors (R020-R039)
	// ============================================

	"R020": {
		Category:   CategoryConflict,
		Message:    "Duplicate pattern",
		Detail:     "Two patterns match exactly the same paths. This is fatal regardless of declaration order.",
		Suggestion: "Remove one of the patterns",
	},
	"R021": {
		Category:   CategoryConflict,
		Message:    "Ambiguous patterns",
		Detail:     "Two patterns differ only in param names and strict ambiguity checking is enabled.",
		Suggestion: "Merge the patterns or disable strictAmbiguity to let the earlier declaration win",
	},

	// ============================================
	// Config and Manifest Errors (R040-R059)
	// ============================================

	"R040": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "routetable.json contains an invalid value.",
	},
	"R041": {
		Category: CategoryConfig,
		Message:  "Configuration not readable",
		Detail:   "routetable.json could not be read or parsed.",
	},
	"R042": {
		Category: CategoryManifest,
		Message:  "Manifest not loadable",
		Detail:   "The route manifest could not be fetched or decoded.",
	},

	// ============================================
	// Server Errors (R060-R079)
	// ============================================

	"R060": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The route table server stopped unexpectedly.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
