// rwmerge merges RenderWare model and texture dictionary dumps into one
// scene and reports how each sub-mesh is textured.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/internal/config"
	"github.com/Faultbox/rwmerge/internal/logger"
	"github.com/Faultbox/rwmerge/pkg/scene"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := args[0]
	rest := args[1:]

	switch command {
	case "merge", "m":
		err = cmdMerge(ctx, cfg, rest)
	case "inspect", "i":
		err = cmdInspect(cfg, rest)
	case "textures", "tex":
		err = cmdTextures(ctx, cfg, rest)
	case "watch", "w":
		err = cmdWatch(ctx, cfg, rest)
	case "init":
		err = cmdInit(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rwmerge - RenderWare model and texture dictionary merger

Usage:
  rwmerge [global options] <command> [options]

Global options:
  -config <file>    Config file (.yaml or .toml)
  -spacing <n>      Distance between merged model files
  -axis <x|y|z>     Axis used to space merged files
  -debug            Enable debug logging
  -log-file <file>  Write logs to this file as well

Commands:
  merge [-txd file]... <model>...      Merge models and print the draw list
  inspect <model>...                   Show which geometry layout each file uses
  textures [-o dir] [-format png|bmp] <txd>...
                                       Export merged textures as images
  watch [-txd file]... <model>...      Rebuild the scene whenever a file changes
  init [-force] [file]                 Write the current settings to a config file

Examples:
  rwmerge merge -txd player.txd.json player.dff.json hat.dff.yaml
  rwmerge -axis z -spacing 10 merge a.dff.json b.dff.json
  rwmerge inspect player.dff.json
  rwmerge textures -o ./out -format bmp player.txd.json
  rwmerge -axis z init rwmerge.toml`)
}

// listFlag collects a repeatable, comma-separated flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func fileSources(paths []string) []scene.Source {
	out := make([]scene.Source, len(paths))
	for i, p := range paths {
		out[i] = scene.FileSource(p)
	}
	return out
}

func newPipeline(cfg *config.Config) *scene.Pipeline {
	p := scene.NewPipeline(logger.Named("scene"))
	p.Decoder = cfg.Decoder()
	opts := cfg.MergeOptions()
	opts.Logger = p.Logger
	p.Merge = opts
	return p
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
