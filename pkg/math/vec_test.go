package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestAxisUnitScale(t *testing.T) {
	tests := []struct {
		axis Axis
		want Vec3
	}{
		{AxisX, Vec3{5, 0, 0}},
		{AxisY, Vec3{0, 5, 0}},
		{AxisZ, Vec3{0, 0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			if got := tt.axis.Unit().Scale(5); got != tt.want {
				t.Errorf("Unit().Scale(5) = %v, want %v", got, tt.want)
			}
			if got := tt.want.Component(tt.axis); got != 5 {
				t.Errorf("Component(%s) = %v, want 5", tt.axis, got)
			}
		})
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"x", AxisX, false},
		{"Y", AxisY, false},
		{" z ", AxisZ, false},
		{"w", AxisX, true},
		{"", AxisX, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	pos := FlattenVec3([]Vec3{{1, 2, 3}, {4, 5, 6}})
	if len(pos) != 6 || pos[3] != 4 || pos[5] != 6 {
		t.Errorf("FlattenVec3 = %v", pos)
	}

	uv := FlattenVec2([]Vec2{{0.25, 0.75}})
	if len(uv) != 2 || uv[0] != 0.25 || uv[1] != 0.75 {
		t.Errorf("FlattenVec2 = %v", uv)
	}
	if FlattenVec2(nil) != nil {
		t.Error("FlattenVec2(nil) should stay nil")
	}
}

func TestBounds(t *testing.T) {
	var b Bounds
	if !b.Empty() {
		t.Fatal("zero Bounds should be empty")
	}

	b = BoundsOf([]Vec3{{1, -2, 3}, {-1, 4, 0}})
	if b.Min != (Vec3{-1, -2, 0}) {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max != (Vec3{1, 4, 3}) {
		t.Errorf("Max = %v", b.Max)
	}

	var total Bounds
	total.Union(Bounds{})
	if !total.Empty() {
		t.Error("union with empty bounds should stay empty")
	}
	total.Union(b)
	total.Extend(Vec3{10, 0, 0})
	if got := total.Size(); got != (Vec3{11, 6, 3}) {
		t.Errorf("Size() = %v, want {11 6 3}", got)
	}
}
