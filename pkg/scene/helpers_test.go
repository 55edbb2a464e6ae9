package scene

import (
	"github.com/Faultbox/rwmerge/pkg/rw"
)

// makeGeometry builds a decoded geometry with vertexCount vertices laid
// out along X and meshCount index groups of one triangle each.
func makeGeometry(vertexCount, meshCount int) map[string]any {
	verts := make([]any, vertexCount)
	uvs := make([]any, vertexCount)
	for i := range verts {
		verts[i] = map[string]any{"x": float64(i), "y": 1.0, "z": -2.0}
		uvs[i] = map[string]any{"u": 0.5, "v": 0.25}
	}

	meshes := make([]any, meshCount)
	for m := range meshes {
		meshes[m] = map[string]any{
			"indices": []any{m % vertexCount, (m + 1) % vertexCount, (m + 2) % vertexCount},
		}
	}

	return map[string]any{
		"vertexInformation":         verts,
		"textureMappingInformation": []any{uvs},
		"binMesh":                   map[string]any{"meshes": meshes},
	}
}

// clumpRecord wraps geometries in the clump.geometryList.geometries shape.
func clumpRecord(geos ...map[string]any) rw.Record {
	list := make([]any, len(geos))
	for i, g := range geos {
		list[i] = g
	}
	return rw.Record{
		"clump": map[string]any{
			"geometryList": map[string]any{"geometries": list},
		},
	}
}

// makeNative builds a texture native with solid RGBA pixels.
func makeNative(name string, w, h int, fill byte) map[string]any {
	pixels := make([]any, w*h*4)
	for i := range pixels {
		pixels[i] = int(fill)
	}
	return map[string]any{
		"name":    name,
		"width":   w,
		"height":  h,
		"mipmaps": []any{pixels},
	}
}

func txdRecord(natives ...map[string]any) rw.Record {
	list := make([]any, len(natives))
	for i, n := range natives {
		list[i] = n
	}
	return rw.Record{
		"textureDictionary": map[string]any{"textureNatives": list},
	}
}

// namedSet returns a TextureSet with one 1x1 texture per name.
func namedSet(names ...string) *TextureSet {
	set := &TextureSet{}
	for i, n := range names {
		set.Add(TextureRecord{Name: n, Width: 1, Height: 1, Pixels: make([]byte, 4), NativeIndex: i})
	}
	return set
}
