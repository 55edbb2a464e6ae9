package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/internal/config"
	"github.com/Faultbox/rwmerge/internal/logger"
	"github.com/Faultbox/rwmerge/pkg/rw"
	"github.com/Faultbox/rwmerge/pkg/scene"
)

var errNoInput = errors.New("no input files")

func cmdMerge(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	var txds listFlag
	fs.Var(&txds, "txd", "Texture dictionary dump (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 && len(txds) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: rwmerge merge [-txd file]... <model>...")
		return errNoInput
	}

	s, err := newPipeline(cfg).Build(ctx, fileSources(fs.Args()), fileSources(txds))
	if err != nil {
		return err
	}
	printScene(os.Stdout, s)
	return nil
}

// printScene writes the file report, the draw list and a summary.
func printScene(w io.Writer, s *scene.MergedScene) {
	fmt.Fprintf(w, "Scene: %s\n\n", s.ID)

	fmt.Fprintln(w, "Files:")
	for _, id := range s.FileOrder {
		st := s.PerFileStatus[id]
		if st.Parsed {
			fmt.Fprintf(w, "  %-9s %-30s ok\n", st.Kind, id)
		} else {
			fmt.Fprintf(w, "  %-9s %-30s FAILED: %s\n", st.Kind, id, st.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Draw list:")
	for _, dc := range s.DrawList() {
		g := &s.Geometries[dc.Geometry]
		sm := &g.SubMeshes[dc.SubMesh]
		tex := "-"
		if dc.Binding.Texture != nil {
			tex = dc.Binding.Texture.Key
		}
		fmt.Fprintf(w, "  %-20s geo %d mesh %d  verts %-6d idx %-6d %s  mat %d  %-12s %s",
			g.SourceTag, dc.Geometry, sm.MeshIndex, len(sm.Vertices), sm.Indices.Len(),
			sm.Indices.Width, sm.MaterialIndex, dc.Binding.Strategy, tex)
		if dc.Binding.RequestedName != "" {
			fmt.Fprintf(w, " (wants %q)", dc.Binding.RequestedName)
		}
		fmt.Fprintln(w)
	}

	models := 0
	for _, st := range s.PerFileStatus {
		if st.Kind == scene.KindModel && st.Parsed {
			models++
		}
	}
	vertices := 0
	for i := range s.Geometries {
		vertices += s.Geometries[i].VertexCount()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Models:     %d\n", models)
	fmt.Fprintf(w, "Geometries: %d\n", len(s.Geometries))
	fmt.Fprintf(w, "Sub-meshes: %d\n", s.SubMeshCount())
	fmt.Fprintf(w, "Textures:   %d\n", s.Textures.Len())
	fmt.Fprintf(w, "Vertices:   %d\n", vertices)
	if b := s.Bounds(); !b.Empty() {
		size := b.Size()
		fmt.Fprintf(w, "Bounds:     (%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)  size %.2f x %.2f x %.2f  diagonal %.2f\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z, size.X, size.Y, size.Z, size.Length())
	}
}

func cmdInspect(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rwmerge inspect <model>...")
		return errNoInput
	}

	dec := cfg.Decoder()
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rec, err := dec.Decode(data)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			continue
		}
		inspectRecord(os.Stdout, path, rec)
	}
	return nil
}

func inspectRecord(w io.Writer, name string, rec rw.Record) {
	payloads, shape := scene.ResolveGeometries(rec)
	if len(payloads) == 0 {
		fmt.Fprintf(w, "%s: %v\n", name, scene.ErrMissingGeometry)
		return
	}

	fmt.Fprintf(w, "%s: %s (%d geometries)\n", name, shape, len(payloads))
	for _, p := range payloads {
		fmt.Fprintf(w, "  geometry %d: %d vertices, %d uv channels, %d meshes, %d materials\n",
			p.Index, len(p.Vertices), len(p.UVChannels), len(p.Meshes), len(p.Materials))
		for i, m := range p.Materials {
			if m.TextureName != "" {
				fmt.Fprintf(w, "    material %d: %s\n", i, m.TextureName)
			}
		}
	}
}

func cmdTextures(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	outDir := fs.String("o", cfg.Textures.OutputDir, "Output directory")
	format := fs.String("format", cfg.Textures.Format, "Image format (png, bmp)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rwmerge textures [-o dir] [-format png|bmp] <txd>...")
		return errNoInput
	}

	f, err := scene.ParseImageFormat(*format)
	if err != nil {
		return err
	}

	s, err := newPipeline(cfg).Build(ctx, nil, fileSources(fs.Args()))
	if err != nil {
		return err
	}
	for _, id := range s.FileOrder {
		if st := s.PerFileStatus[id]; !st.Parsed {
			fmt.Fprintf(os.Stderr, "Skipped %s: %s\n", id, st.Error)
		}
	}

	written, err := scene.ExportTextures(s.Textures, *outDir, f)
	for _, path := range written {
		fmt.Println(path)
	}
	if err != nil {
		return err
	}
	logger.Info("textures exported", zap.Int("count", len(written)), zap.String("dir", *outDir))
	return nil
}

// cmdInit writes the loaded settings (defaults, config file and global
// flags) to path, or to the user config directory when no path is given.
func cmdInit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Parse(args)

	path := filepath.Join(config.ConfigDir(), "rwmerge.yaml")
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if !*force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}

	var err error
	if fs.NArg() > 0 {
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
