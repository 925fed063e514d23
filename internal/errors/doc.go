// Package errors provides coded, actionable error messages for route tables.
//
// Every error has a unique code that maps to a short message, a longer
// explanation and a fix suggestion:
//   - R001-R009: pattern syntax errors
//   - R020-R039: conflicts between patterns
//   - R040-R059: configuration and manifest errors
//   - R060-R079: server errors
//
// Compile failures from pkg/router are expanded with FromBuildError into one
// Error per problem, each pointing at the offending pattern.
//
// # Usage
//
//	_, err := router.Compile(patterns)
//	for _, e := range errors.FromBuildError(err) {
//	    fmt.Print(e.Format())
//	}
//	// Output:
//	// ERROR R003: Wildcard is not the last segment
//	//
//	//   │ /files/$/edit
//	//   │        ^
//	//
//	//   A wildcard consumes every remaining segment, so nothing may follow it.
//	//
//	//   Hint: Move the wildcard to the end of the pattern
package errors
