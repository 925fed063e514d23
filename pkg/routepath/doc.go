// Package routepath holds the path codec shared by the route matcher: segment
// splitting, lenient percent-decoding, segment encoding for interpolation,
// relative path resolution, and canonicalization of untrusted request paths.
package routepath
