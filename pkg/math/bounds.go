package math

import "github.com/chewxy/math32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
	valid    bool
}

// Extend grows the box to include p.
func (b *Bounds) Extend(p Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = Vec3{math32.Min(b.Min.X, p.X), math32.Min(b.Min.Y, p.Y), math32.Min(b.Min.Z, p.Z)}
	b.Max = Vec3{math32.Max(b.Max.X, p.X), math32.Max(b.Max.Y, p.Y), math32.Max(b.Max.Z, p.Z)}
}

// Union grows the box to include other.
func (b *Bounds) Union(other Bounds) {
	if !other.valid {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.valid
}

// Size returns the box dimensions.
func (b Bounds) Size() Vec3 {
	if !b.valid {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// BoundsOf returns the box enclosing points.
func BoundsOf(points []Vec3) Bounds {
	var b Bounds
	for _, p := range points {
		b.Extend(p)
	}
	return b
}
