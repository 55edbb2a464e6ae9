package scene

import (
	"errors"
	"fmt"
)

// Scene errors.
var (
	ErrMissingGeometry = errors.New("no geometry found")
	ErrMissingBuffer   = errors.New("missing vertex or index buffer")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// SubMeshError reports a sub-mesh that could not be built.
type SubMeshError struct {
	Geometry int
	Mesh     int
	Err      error
}

func (e *SubMeshError) Error() string {
	return fmt.Sprintf("geometry %d mesh %d: %v", e.Geometry, e.Mesh, e.Err)
}

func (e *SubMeshError) Unwrap() error {
	return e.Err
}
