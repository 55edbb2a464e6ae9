package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/rwmerge/internal/config"
	"github.com/Faultbox/rwmerge/internal/logger"
)

func cmdWatch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var txds listFlag
	fs.Var(&txds, "txd", "Texture dictionary dump (repeatable)")
	debounce := fs.Duration("debounce", cfg.Watch.Debounce, "Delay before rebuilding after a change")
	fs.Parse(args)

	if fs.NArg() < 1 && len(txds) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: rwmerge watch [-txd file]... <model>...")
		return errNoInput
	}

	models, err := absPaths(fs.Args())
	if err != nil {
		return err
	}
	textures, err := absPaths(txds)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files, so watch the directories.
	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range append(append([]string{}, models...), textures...) {
		targets[p] = true
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	p := newPipeline(cfg)
	rebuild := func() {
		// Every rebuild starts from an empty scene.
		s, err := p.Build(ctx, fileSources(models), fileSources(textures))
		if err != nil {
			logger.Warn("rebuild aborted", zap.Error(err))
			return
		}
		printScene(os.Stdout, s)
		fmt.Println()
	}

	rebuild()
	logger.Info("watching for changes", zap.Int("files", len(targets)), zap.Duration("debounce", *debounce))
	return watchLoop(ctx, w, targets, *debounce, rebuild)
}

// watchLoop calls rebuild once per burst of events touching targets.
// It returns nil when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]bool, debounce time.Duration, rebuild func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
