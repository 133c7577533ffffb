// Package core provides the shared data model of the electron simulator.
//
// The package defines the value types that flow between the loaders,
// the work pool, the simulation drivers and the output layer:
//
//   - [Vec3]: three-component vector in scene units (nm)
//   - [Particle]: position, direction and kinetic energy (eV)
//   - [Tag]: correlation id linking a particle back to its primary
//   - [Pixel]: image coordinate associated with each primary
//   - [Fate]: per-slot state inside a driver's working set
//
// # Thread Safety
//
// All types here are plain values. Slices of them (primaries, pixels) are
// built once by the orchestrator and only read by worker goroutines.
package core
