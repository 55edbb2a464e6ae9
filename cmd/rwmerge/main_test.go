package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Faultbox/rwmerge/internal/config"
	"github.com/Faultbox/rwmerge/pkg/rw"
	"github.com/Faultbox/rwmerge/pkg/scene"
)

const modelDump = `{"geometries": [{
  "vertexInformation": [{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0},{"x":0,"y":1,"z":0}],
  "binMesh": {"meshes": [{"materialIndex": 0, "indices": [0,1,2]}]},
  "materialList": {"materialData": [{"texture": {"textureName": "Crate"}}]}
}]}`

const txdDump = `{"textureDictionary": {"textureNatives": [
  {"name": "crate", "width": 1, "height": 1, "mipmaps": [[255,0,0,255]]}
]}}`

func TestListFlag(t *testing.T) {
	var l listFlag
	for _, v := range []string{"a.txd", "b.txd, c.txd", " ,"} {
		if err := l.Set(v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}

	want := []string{"a.txd", "b.txd", "c.txd"}
	if len(l) != len(want) {
		t.Fatalf("expected %v, got %v", want, l)
	}
	for i := range want {
		if l[i] != want[i] {
			t.Errorf("l[%d] = %q, want %q", i, l[i], want[i])
		}
	}
	if l.String() != "a.txd,b.txd,c.txd" {
		t.Errorf("unexpected String(): %q", l.String())
	}
}

func TestPrintScene(t *testing.T) {
	p := scene.NewPipeline(nil)
	s, err := p.Build(context.Background(),
		[]scene.Source{
			scene.BytesSource{Name: "crate.dff", Data: []byte(modelDump)},
			scene.BytesSource{Name: "empty.dff", Data: []byte(`{"clump": {}}`)},
		},
		[]scene.Source{scene.BytesSource{Name: "crate.txd", Data: []byte(txdDump)}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	printScene(&buf, s)
	out := buf.String()

	for _, want := range []string{
		s.ID.String(),
		"crate.dff",
		"FAILED: no geometry found",
		"crate.txd",
		"name-match",
		`(wants "Crate")`,
		"Models:     1",
		"Sub-meshes: 1",
		"Vertices:   3",
		"Textures:   1",
		"Bounds:",
		"diagonal 1.41",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	// Files are listed in upload order.
	if strings.Index(out, "crate.dff") > strings.Index(out, "empty.dff") {
		t.Error("files printed out of order")
	}
}

func TestInspectRecord(t *testing.T) {
	rec, err := rw.DumpDecoder{}.Decode([]byte(modelDump))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var buf bytes.Buffer
	inspectRecord(&buf, "crate.dff", rec)
	out := buf.String()
	for _, want := range []string{"crate.dff: geometries (1 geometries)", "3 vertices", "material 0: Crate"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	inspectRecord(&buf, "empty.dff", rw.Record{"clump": map[string]any{}})
	if !strings.Contains(buf.String(), "no geometry found") {
		t.Errorf("expected missing geometry message, got %q", buf.String())
	}
}

func TestWatchLoopDebounces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "crate.dff.json")
	if err := os.WriteFile(target, []byte(modelDump), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rebuilt := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, map[string]bool{target: true}, 50*time.Millisecond, func() {
			rebuilt <- struct{}{}
		})
	}()

	// Changes to unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(modelDump), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchLoop returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchLoop did not stop on cancel")
	}
}

func TestCmdInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "rwmerge.toml")
	cfg := config.Default()
	cfg.Merge.Axis = "z"

	if err := cmdInit(cfg, []string{path}); err != nil {
		t.Fatalf("cmdInit: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if out := string(data); !strings.Contains(out, "axis = 'z'") && !strings.Contains(out, `axis = "z"`) {
		t.Errorf("expected axis in written config:\n%s", data)
	}

	if err := cmdInit(cfg, []string{path}); err == nil {
		t.Error("expected an error when the file exists")
	}
	if err := cmdInit(cfg, []string{"-force", path}); err != nil {
		t.Errorf("cmdInit -force: %v", err)
	}
}
