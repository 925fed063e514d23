// Package server exposes a live route table over HTTP for debugging.
//
// Endpoints:
//
//	GET  /healthz               table generation, 503 before the first load
//	GET  /routes                patterns in match order with rank and nesting
//	GET  /match?path=/a/b       the winning pattern and its params
//	GET  /interpolate?id=...    a concrete path built from param.<name>= values
//	POST /reload                reload the manifest (when a reloader is set)
//	GET  /errors                errors of the latest reload
//	GET  /__reload              WebSocket reload events
//	GET  /metrics               Prometheus metrics
package server
