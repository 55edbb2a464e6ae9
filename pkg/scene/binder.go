package scene

import "fmt"

// BindStrategy records how a texture was chosen for a sub-mesh.
type BindStrategy int

const (
	BindNone    BindStrategy = iota // no texture available; draw untextured
	BindByName                      // material texture name matched
	BindByIndex                     // material index addressed the set directly
	BindByWrap                      // material index wrapped modulo the set size
)

// String returns a short strategy name.
func (s BindStrategy) String() string {
	switch s {
	case BindNone:
		return "none"
	case BindByName:
		return "name-match"
	case BindByIndex:
		return "index-direct"
	case BindByWrap:
		return "index-wrap"
	default:
		return fmt.Sprintf("BindStrategy(%d)", int(s))
	}
}

// Binding is the texture chosen for one draw call.
type Binding struct {
	Texture       *TextureRecord // nil for BindNone
	Index         int            // position in the TextureSet, -1 for BindNone
	Strategy      BindStrategy
	RequestedName string // texture name carried by the material, if any
}

// BindTexture picks the texture for a sub-mesh. The precedence is fixed:
// name match, then direct index, then index modulo the set size. An empty
// set yields BindNone.
//
// Wrapping hides a mismatch between a geometry's material count and the
// dictionary's native count; content that relies on it is worth a look.
func BindTexture(materialIndex int, materials []Material, set *TextureSet) Binding {
	b := Binding{Index: -1}
	if materialIndex >= 0 && materialIndex < len(materials) {
		b.RequestedName = materials[materialIndex].TextureName
	}

	n := set.Len()
	if n == 0 {
		return b
	}

	if i, ok := set.FindByName(b.RequestedName); ok {
		b.Texture, b.Index, b.Strategy = set.At(i), i, BindByName
		return b
	}

	if materialIndex >= 0 && materialIndex < n {
		b.Texture, b.Index, b.Strategy = set.At(materialIndex), materialIndex, BindByIndex
		return b
	}

	i := ((materialIndex % n) + n) % n
	b.Texture, b.Index, b.Strategy = set.At(i), i, BindByWrap
	return b
}

// DrawCall is one sub-mesh with its bound texture.
type DrawCall struct {
	Geometry int // index into MergedScene.Geometries
	SubMesh  int // index into that geometry's SubMeshes
	Binding  Binding
}

// DrawList binds every sub-mesh of the scene in order.
func (s *MergedScene) DrawList() []DrawCall {
	calls := make([]DrawCall, 0, s.SubMeshCount())
	for gi := range s.Geometries {
		geo := &s.Geometries[gi]
		for si := range geo.SubMeshes {
			calls = append(calls, DrawCall{
				Geometry: gi,
				SubMesh:  si,
				Binding:  BindTexture(geo.SubMeshes[si].MaterialIndex, geo.Materials, s.Textures),
			})
		}
	}
	return calls
}
