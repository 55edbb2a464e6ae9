package scene

import "testing"

func TestBindTexture(t *testing.T) {
	tests := []struct {
		name          string
		materialIndex int
		materials     []Material
		set           *TextureSet
		wantStrategy  BindStrategy
		wantIndex     int
	}{
		{
			name:          "name match beats direct index",
			materialIndex: 0,
			materials:     []Material{{TextureName: "shirt"}},
			set:           namedSet("skin", "shirt"),
			wantStrategy:  BindByName,
			wantIndex:     1,
		},
		{
			name:          "name match ignores case",
			materialIndex: 0,
			materials:     []Material{{TextureName: "SHIRT"}},
			set:           namedSet("skin", "Shirt"),
			wantStrategy:  BindByName,
			wantIndex:     1,
		},
		{
			name:          "first name match in set order",
			materialIndex: 0,
			materials:     []Material{{TextureName: "body"}},
			set:           namedSet("skin", "BODY", "body"),
			wantStrategy:  BindByName,
			wantIndex:     1,
		},
		{
			name:          "direct index when name is unknown",
			materialIndex: 1,
			materials:     []Material{{TextureName: "a"}, {TextureName: "missing"}},
			set:           namedSet("skin", "shirt"),
			wantStrategy:  BindByIndex,
			wantIndex:     1,
		},
		{
			name:          "direct index without materials",
			materialIndex: 0,
			set:           namedSet("skin"),
			wantStrategy:  BindByIndex,
			wantIndex:     0,
		},
		{
			name:          "wrap when index exceeds set",
			materialIndex: 2,
			materials:     []Material{{}, {}, {TextureName: "absent"}},
			set:           namedSet("skin", "shirt"),
			wantStrategy:  BindByWrap,
			wantIndex:     0,
		},
		{
			name:          "wrap far past the end",
			materialIndex: 7,
			set:           namedSet("a", "b", "c"),
			wantStrategy:  BindByWrap,
			wantIndex:     1,
		},
		{
			name:          "negative index wraps non-negative",
			materialIndex: -1,
			set:           namedSet("a", "b", "c"),
			wantStrategy:  BindByWrap,
			wantIndex:     2,
		},
		{
			name:          "empty set binds nothing",
			materialIndex: 0,
			materials:     []Material{{TextureName: "skin"}},
			set:           &TextureSet{},
			wantStrategy:  BindNone,
			wantIndex:     -1,
		},
		{
			name:          "nil set binds nothing",
			materialIndex: 0,
			wantStrategy:  BindNone,
			wantIndex:     -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BindTexture(tt.materialIndex, tt.materials, tt.set)
			if b.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %v, want %v", b.Strategy, tt.wantStrategy)
			}
			if b.Index != tt.wantIndex {
				t.Errorf("index = %d, want %d", b.Index, tt.wantIndex)
			}
			if tt.wantStrategy == BindNone {
				if b.Texture != nil {
					t.Error("expected no texture")
				}
				return
			}
			if b.Texture != tt.set.At(tt.wantIndex) {
				t.Errorf("texture does not point at set entry %d", tt.wantIndex)
			}
		})
	}
}

func TestBindTexture_RequestedName(t *testing.T) {
	mats := []Material{{TextureName: "skin"}}
	if b := BindTexture(0, mats, nil); b.RequestedName != "skin" {
		t.Errorf("RequestedName = %q, want skin", b.RequestedName)
	}
	if b := BindTexture(4, mats, namedSet("x")); b.RequestedName != "" {
		t.Errorf("RequestedName = %q for out-of-range material, want empty", b.RequestedName)
	}
}

func TestBindStrategy_String(t *testing.T) {
	tests := []struct {
		s    BindStrategy
		want string
	}{
		{BindNone, "none"},
		{BindByName, "name-match"},
		{BindByIndex, "index-direct"},
		{BindByWrap, "index-wrap"},
		{BindStrategy(9), "BindStrategy(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawList(t *testing.T) {
	geo := makeGeometry(10, 3)
	geo["materialList"] = map[string]any{
		"materialData": []any{
			map[string]any{"textureName": "shirt"},
			map[string]any{"textureName": "nope"},
			map[string]any{"textureName": "nope"},
		},
	}
	payloads, _ := ResolveGeometries(clumpRecord(geo))

	s := &MergedScene{
		Geometries: []NormalizedGeometry{BuildGeometry(payloads[0], nil)},
		Textures:   namedSet("skin", "shirt"),
	}

	calls := s.DrawList()
	if len(calls) != 3 {
		t.Fatalf("expected 3 draw calls, got %d", len(calls))
	}

	want := []struct {
		strategy BindStrategy
		index    int
	}{
		{BindByName, 1},
		{BindByIndex, 1},
		{BindByWrap, 0},
	}
	for i, w := range want {
		c := calls[i]
		if c.Geometry != 0 || c.SubMesh != i {
			t.Errorf("call %d addresses %d/%d", i, c.Geometry, c.SubMesh)
		}
		if c.Binding.Strategy != w.strategy || c.Binding.Index != w.index {
			t.Errorf("call %d bound %v/%d, want %v/%d", i, c.Binding.Strategy, c.Binding.Index, w.strategy, w.index)
		}
	}
}
