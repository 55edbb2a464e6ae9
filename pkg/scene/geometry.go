package scene

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/pkg/math"
)

// BuildSubMesh builds index group meshIndex of p.
// It fails with ErrMissingBuffer when p has no vertices or the group is
// absent, and with ErrIndexOutOfRange when an index exceeds the vertex list.
func BuildSubMesh(p Payload, meshIndex int) (SubMesh, error) {
	fail := func(err error) (SubMesh, error) {
		return SubMesh{}, &SubMeshError{Geometry: p.Index, Mesh: meshIndex, Err: err}
	}

	if len(p.Vertices) == 0 || meshIndex < 0 || meshIndex >= len(p.Meshes) {
		return fail(ErrMissingBuffer)
	}
	raw := p.Meshes[meshIndex]
	if len(raw.Indices) == 0 {
		return fail(ErrMissingBuffer)
	}

	vertexCount := len(p.Vertices)
	for _, idx := range raw.Indices {
		if int64(idx) >= int64(vertexCount) {
			return fail(ErrIndexOutOfRange)
		}
	}

	sm := SubMesh{
		Vertices:      p.Vertices,
		Indices:       NewIndexBuffer(IndexWidthFor(vertexCount), raw.Indices),
		MaterialIndex: meshIndex,
		GeometryIndex: p.Index,
		MeshIndex:     meshIndex,
	}
	if raw.HasMaterial {
		sm.MaterialIndex = raw.MaterialIndex
	}

	// Only the first UV channel is used.
	if len(p.UVChannels) > 0 && len(p.UVChannels[0]) == vertexCount {
		sm.UV = p.UVChannels[0]
	}

	return sm, nil
}

// BuildGeometry builds every sub-mesh of p. Sub-meshes that fail are left
// out and their errors collected in Skipped.
func BuildGeometry(p Payload, log *zap.Logger) NormalizedGeometry {
	if log == nil {
		log = zap.NewNop()
	}

	geo := NormalizedGeometry{
		Materials: p.Materials,
		SourceTag: p.SourceTag,
	}

	if len(p.UVChannels) > 0 && len(p.UVChannels[0]) != len(p.Vertices) {
		log.Warn("dropping UV channel with mismatched length",
			zap.String("source", p.SourceTag),
			zap.Int("geometry", p.Index),
			zap.Int("uvs", len(p.UVChannels[0])),
			zap.Int("vertices", len(p.Vertices)))
	}

	if len(p.Meshes) == 0 {
		geo.Skipped = &SubMeshError{Geometry: p.Index, Mesh: 0, Err: ErrMissingBuffer}
		return geo
	}

	for i := range p.Meshes {
		sm, err := BuildSubMesh(p, i)
		if err != nil {
			log.Warn("skipping sub-mesh",
				zap.String("source", p.SourceTag),
				zap.Int("geometry", p.Index),
				zap.Int("mesh", i),
				zap.Error(err))
			geo.Skipped = multierr.Append(geo.Skipped, err)
			continue
		}
		geo.SubMeshes = append(geo.SubMeshes, sm)
	}

	log.Debug("built geometry",
		zap.String("source", p.SourceTag),
		zap.Int("geometry", p.Index),
		zap.Int("vertices", len(p.Vertices)),
		zap.Int("submeshes", len(geo.SubMeshes)))

	return geo
}

// translate returns a copy of p with every vertex moved by offset.
func translate(p Payload, offset math.Vec3) Payload {
	if offset == (math.Vec3{}) || p.Vertices == nil {
		return p
	}
	moved := make([]math.Vec3, len(p.Vertices))
	for i, v := range p.Vertices {
		moved[i] = v.Add(offset)
	}
	p.Vertices = moved
	return p
}
