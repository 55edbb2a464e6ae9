// Package math provides the small vector types used by mesh buffers.
package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// FlattenVec2 writes vectors as a packed u,v stream (stride 2).
func FlattenVec2(vs []Vec2) []float32 {
	if vs == nil {
		return nil
	}
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, v.X, v.Y)
	}
	return out
}
