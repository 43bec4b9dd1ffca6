package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay groups bursts of events (editors often write twice) into
// one run.
const debounceDelay = 100 * time.Millisecond

// watch re-runs rerun after files with a configured extension change
// below args. It returns when ctx is cancelled.
func watch(ctx context.Context, cc *CommandContext, args []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if len(args) == 0 {
		args = []string{"."}
	}
	for _, arg := range args {
		if err := watchPath(watcher, arg); err != nil {
			return fmt.Errorf("failed to watch %s: %w", arg, err)
		}
	}

	cc.Renderer.Println(cc.Renderer.Styles().Muted.Render("Watching for changes. Press Ctrl+C to stop."))

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		changed string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						cc.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !hasExtension(event.Name, cc.Cfg.Extensions) {
				continue
			}

			changed = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceDelay)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			cc.Logger.Debug("change detected", "path", changed)
			cc.Renderer.Println("")
			cc.Renderer.Println(cc.Renderer.Styles().Info.Render("Change detected: " + filepath.Base(changed)))
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchPath adds path to the watcher. Directories are added recursively,
// skipping hidden ones; a file is watched through its directory.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
