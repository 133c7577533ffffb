package core

import "errors"

// Configuration errors detected at startup.
var (
	// ErrNoTriangles indicates the geometry file produced no triangles.
	ErrNoTriangles = errors.New("core: could not load triangles")

	// ErrNoPrimaries indicates the primaries file produced no particles.
	ErrNoPrimaries = errors.New("core: could not load primary electrons")

	// ErrNotEnoughMaterials indicates the geometry references more materials than supplied.
	ErrNotEnoughMaterials = errors.New("core: not enough materials provided for this geometry")

	// ErrUsage indicates missing or malformed command-line input.
	ErrUsage = errors.New("core: invalid usage")
)

// ConfigError wraps a startup failure. Usage reports whether the
// caller should print usage text along with the message.
type ConfigError struct {
	Usage   bool
	Wrapped error
}

func (e *ConfigError) Error() string {
	return e.Wrapped.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
