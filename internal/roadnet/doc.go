// Package roadnet defines the read-only road network contract the swarm
// engine consumes: road and span enumeration, arc-length evaluation, lane
// queries, and inverse (x, y, h) -> (road, lane, s) conversion.
//
// The real network lives outside this repository; a production integration
// adapts its road model to these interfaces. StaticNetwork provides an
// in-memory line-geometry implementation used by the demo simulator and the
// package tests.
package roadnet
