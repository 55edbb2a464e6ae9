package scene

import (
	"github.com/Faultbox/rwmerge/pkg/math"
	"github.com/Faultbox/rwmerge/pkg/rw"
)

// Candidate is one known location of the geometry list inside a record.
type Candidate struct {
	Name    string
	Extract func(rw.Record) []any
}

func pathCandidate(path string) Candidate {
	keys := rw.SplitPath(path)
	return Candidate{
		Name: path,
		Extract: func(r rw.Record) []any {
			v, ok := r.Lookup(keys...)
			if !ok {
				return nil
			}
			list, _ := rw.AsList(v)
			return list
		},
	}
}

// GeometryCandidates lists the record shapes produced by known decoder
// versions, in the order they are tried.
var GeometryCandidates = []Candidate{
	pathCandidate("clump.geometryList.geometries"),
	pathCandidate("geometryList.geometries"),
	pathCandidate("clump.geometries"),
	pathCandidate("geometries"),
}

// materialNameFields are the places a material may keep its texture name.
var materialNameFields = [][]string{
	{"textureName"},
	{"texture", "textureName"},
	{"texture", "name"},
	{"texture", "textureReference"},
	{"texture"},
}

// ResolveGeometries returns the geometry payloads of rec and the name of
// the candidate that matched. Both are empty when no candidate matches.
func ResolveGeometries(rec rw.Record) ([]Payload, string) {
	for _, c := range GeometryCandidates {
		list := c.Extract(rec)
		if len(list) == 0 {
			continue
		}
		payloads := make([]Payload, 0, len(list))
		for i, g := range list {
			payloads = append(payloads, extractPayload(g, i))
		}
		return payloads, c.Name
	}
	return nil, ""
}

func extractPayload(g any, index int) Payload {
	p := Payload{Index: index}

	verts, ok := rw.Lookup(g, "vertexInformation")
	if !ok {
		if targets, ok := rw.Lookup(g, "morphTargets"); ok {
			if list, _ := rw.AsList(targets); len(list) > 0 {
				verts, _ = rw.Lookup(list[0], "vertices")
			}
		}
	}
	p.Vertices = extractVec3s(verts)

	if channels, ok := rw.Lookup(g, "textureMappingInformation"); ok {
		list, _ := rw.AsList(channels)
		for _, ch := range list {
			p.UVChannels = append(p.UVChannels, extractVec2s(ch))
		}
	}

	if meshes, ok := rw.Lookup(g, "binMesh", "meshes"); ok {
		list, _ := rw.AsList(meshes)
		for _, m := range list {
			p.Meshes = append(p.Meshes, extractMesh(m))
		}
	}

	if mats, ok := rw.Lookup(g, "materialList", "materialData"); ok {
		list, _ := rw.AsList(mats)
		for _, m := range list {
			p.Materials = append(p.Materials, Material{TextureName: materialTextureName(m)})
		}
	}

	return p
}

// extractVec3s returns nil unless every element has numeric x, y and z.
func extractVec3s(v any) []math.Vec3 {
	list, ok := rw.AsList(v)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]math.Vec3, len(list))
	for i, e := range list {
		m, ok := rw.AsMap(e)
		if !ok {
			return nil
		}
		x, okX := rw.AsFloat(m["x"])
		y, okY := rw.AsFloat(m["y"])
		z, okZ := rw.AsFloat(m["z"])
		if !okX || !okY || !okZ {
			return nil
		}
		out[i] = math.Vec3{X: x, Y: y, Z: z}
	}
	return out
}

func extractVec2s(v any) []math.Vec2 {
	list, ok := rw.AsList(v)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]math.Vec2, len(list))
	for i, e := range list {
		m, ok := rw.AsMap(e)
		if !ok {
			return nil
		}
		u, okU := rw.AsFloat(m["u"])
		tv, okV := rw.AsFloat(m["v"])
		if !okU || !okV {
			return nil
		}
		out[i] = math.Vec2{X: u, Y: tv}
	}
	return out
}

func extractMesh(v any) RawMesh {
	var mesh RawMesh
	if idx, ok := rw.Lookup(v, "materialIndex"); ok {
		if n, ok := rw.AsInt(idx); ok && n >= 0 {
			mesh.MaterialIndex = n
			mesh.HasMaterial = true
		}
	}

	raw, ok := rw.Lookup(v, "indices")
	if !ok {
		return mesh
	}
	list, ok := rw.AsList(raw)
	if !ok || len(list) == 0 {
		return mesh
	}
	indices := make([]uint32, len(list))
	for i, e := range list {
		n, ok := rw.AsInt(e)
		if !ok || n < 0 || int64(n) > 0xFFFFFFFF {
			return mesh
		}
		indices[i] = uint32(n)
	}
	mesh.Indices = indices
	return mesh
}

func materialTextureName(v any) string {
	for _, path := range materialNameFields {
		field, ok := rw.Lookup(v, path...)
		if !ok {
			continue
		}
		if s, ok := rw.AsString(field); ok && s != "" {
			return s
		}
	}
	return ""
}
