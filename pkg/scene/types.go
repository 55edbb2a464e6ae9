// Package scene normalizes decoded RenderWare models and texture
// dictionaries into draw-ready buffers and merges several files into one
// scene.
package scene

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/rwmerge/pkg/math"
)

// NarrowIndexLimit is the largest vertex count addressable by 16-bit indices.
const NarrowIndexLimit = 65535

// IndexWidth is the element width of an index buffer.
type IndexWidth uint8

const (
	Narrow IndexWidth = iota // uint16 indices
	Wide                     // uint32 indices
)

// String returns "u16" or "u32".
func (w IndexWidth) String() string {
	switch w {
	case Narrow:
		return "u16"
	case Wide:
		return "u32"
	default:
		return fmt.Sprintf("IndexWidth(%d)", uint8(w))
	}
}

// Bytes returns the size of one index element.
func (w IndexWidth) Bytes() int {
	if w == Wide {
		return 4
	}
	return 2
}

// IndexWidthFor picks the index width for a sub-mesh with vertexCount vertices.
func IndexWidthFor(vertexCount int) IndexWidth {
	if vertexCount > NarrowIndexLimit {
		return Wide
	}
	return Narrow
}

// IndexBuffer holds indices at the width chosen for its sub-mesh.
// Exactly one of U16 and U32 is populated.
type IndexBuffer struct {
	Width IndexWidth
	U16   []uint16
	U32   []uint32
}

// NewIndexBuffer stores indices at width w. Callers must have checked
// that every index fits; see IndexWidthFor.
func NewIndexBuffer(w IndexWidth, indices []uint32) IndexBuffer {
	buf := IndexBuffer{Width: w}
	if w == Wide {
		buf.U32 = append([]uint32(nil), indices...)
		return buf
	}
	buf.U16 = make([]uint16, len(indices))
	for i, idx := range indices {
		buf.U16[i] = uint16(idx)
	}
	return buf
}

// Len returns the number of indices.
func (b IndexBuffer) Len() int {
	if b.Width == Wide {
		return len(b.U32)
	}
	return len(b.U16)
}

// At returns index i widened to uint32.
func (b IndexBuffer) At(i int) uint32 {
	if b.Width == Wide {
		return b.U32[i]
	}
	return uint32(b.U16[i])
}

// Bytes returns the buffer as little-endian bytes for GPU upload.
func (b IndexBuffer) Bytes() []byte {
	out := make([]byte, b.Len()*b.Width.Bytes())
	if b.Width == Wide {
		for i, idx := range b.U32 {
			binary.LittleEndian.PutUint32(out[i*4:], idx)
		}
		return out
	}
	for i, idx := range b.U16 {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}

// RawMesh is one index group of a geometry as found in the source record.
type RawMesh struct {
	Indices       []uint32 // nil when the group is absent or unreadable
	MaterialIndex int
	HasMaterial   bool // MaterialIndex was present in the source
}

// Material is the part of a source material the binder needs.
type Material struct {
	TextureName string
}

// Payload is one geometry extracted from a decoded model record.
type Payload struct {
	Vertices   []math.Vec3
	UVChannels [][]math.Vec2
	Meshes     []RawMesh
	Materials  []Material
	SourceTag  string
	Index      int // position within the source file's geometry list
}

// SubMesh is one drawable triangle list.
type SubMesh struct {
	Vertices      []math.Vec3
	Indices       IndexBuffer
	UV            []math.Vec2 // nil when the source has no usable UVs
	MaterialIndex int

	GeometryIndex int
	MeshIndex     int
}

// Positions returns the vertex buffer as x,y,z floats.
func (s *SubMesh) Positions() []float32 {
	return math.FlattenVec3(s.Vertices)
}

// UVs returns the texture coordinate buffer as u,v floats, or nil.
func (s *SubMesh) UVs() []float32 {
	return math.FlattenVec2(s.UV)
}

// NormalizedGeometry is the built form of one Payload.
type NormalizedGeometry struct {
	SubMeshes []SubMesh
	Materials []Material
	SourceTag string

	// Skipped aggregates the errors of sub-meshes that could not be built.
	Skipped error
}

// VertexCount returns the number of distinct vertices of the geometry.
// Sub-meshes of one geometry share a vertex list.
func (g *NormalizedGeometry) VertexCount() int {
	if len(g.SubMeshes) == 0 {
		return 0
	}
	return len(g.SubMeshes[0].Vertices)
}

// FileKind tells model files from texture dictionary files.
type FileKind int

const (
	KindModel FileKind = iota
	KindTextures
)

// String returns "model" or "textures".
func (k FileKind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTextures:
		return "textures"
	default:
		return fmt.Sprintf("FileKind(%d)", int(k))
	}
}

// FileStatus is the outcome of processing one uploaded file.
type FileStatus struct {
	Kind   FileKind
	Parsed bool
	Error  string
}

// MergedScene is the result of the pipeline.
type MergedScene struct {
	ID            uuid.UUID
	Geometries    []NormalizedGeometry
	Textures      *TextureSet
	PerFileStatus map[string]FileStatus
	FileOrder     []string // upload order of PerFileStatus keys
}

// Bounds returns the box enclosing every sub-mesh vertex.
func (s *MergedScene) Bounds() math.Bounds {
	var b math.Bounds
	for i := range s.Geometries {
		if len(s.Geometries[i].SubMeshes) > 0 {
			b.Union(math.BoundsOf(s.Geometries[i].SubMeshes[0].Vertices))
		}
	}
	return b
}

// SubMeshCount returns the number of sub-meshes across all geometries.
func (s *MergedScene) SubMeshCount() int {
	n := 0
	for i := range s.Geometries {
		n += len(s.Geometries[i].SubMeshes)
	}
	return n
}
