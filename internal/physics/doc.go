// Package physics provides the scattering mechanisms a material is
// composed of.
//
// Every mechanism implements [Mechanism]: it samples the distance to its
// next event and applies that event to a particle. Each concrete type
// also provides two creation functions, one per material file format,
// registered together as a [Kind]:
//
//   - [NewElasticLegacy] / [NewElasticStructured]
//   - [NewInelasticLegacy] / [NewInelasticStructured]
//
// Mechanisms are immutable after creation and may be shared by any
// number of goroutines; all randomness comes from the caller's stream.
package physics
