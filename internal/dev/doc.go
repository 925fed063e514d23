// Package dev keeps a route table in sync with its manifest while the
// debug server runs.
//
// Three pieces cooperate:
//
//   - Watcher: fsnotify watch on the manifest file, debounced
//   - Reloader: loads the manifest and swaps it into a router.Registry
//   - ReloadServer: pushes every swap or rejection to WebSocket subscribers
//
// # Reload Protocol
//
// Subscribers connect to /__reload. Messages are JSON-encoded:
//
//	{"type": "loaded", "generation": 3, "routes": 42, "source": "routes.yaml"}
//	{"type": "error", "source": "routes.yaml", "errors": [...]}
//
// Each entry of "errors" is a coded error with code, message and the
// offending pattern location. A new subscriber receives the latest message
// on connect.
package dev
