// Package manifest reads route pattern lists from files and S3 objects.
//
// Three formats are understood. JSON manifests are either a bare array of
// patterns or an object with a "routes" array. YAML manifests are a
// sequence, or a mapping with a "routes" sequence, whose items are strings
// or mappings with a "path" key. Text manifests hold one pattern per line
// with # comments.
//
// YAML and text manifests keep the line of every pattern so compile errors
// can point back at the declaration:
//
//	m, err := src.Load(ctx)
//	...
//	_, err = router.Compile(m.Patterns)
//	for _, e := range m.Annotate(errors.FromBuildError(err)) {
//		fmt.Print(e.Format())
//	}
package manifest
