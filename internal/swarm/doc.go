// Package swarm implements the traffic-population engine: it keeps a bounded
// fleet of simulated vehicles alive on the road network around a moving
// reference object.
//
// Pipeline, run synchronously once per throttled step: tessellate an
// elliptical ring around the reference pose, intersect it with the static
// road index, turn the crossing points into bounded (position, lane-count)
// selections, then despawn vehicles that left the ring and spawn
// replacements under spacing rules.
//
// Dependency rule: swarm may depend on geom, aabb, roadnet and entities;
// storage and monitoring attach from the outside through small interfaces.
package swarm
