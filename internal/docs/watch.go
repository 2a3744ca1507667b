package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sitenav/internal/config"
	"golang.org/x/sync/errgroup"
)

// BuildFunc receives the outcome of every build performed by a Watcher.
type BuildFunc func(result *Result, err error)

// ReloadFunc loads the project configuration again after its file changed.
type ReloadFunc func() (*config.ProjectConfig, error)

// Watcher rebuilds the site configuration whenever the navigation file, the
// project config or a content document changes. Every rebuild constructs
// fresh values.
type Watcher struct {
	gen      *Generator
	debounce time.Duration
	onBuild  BuildFunc
	logger   *slog.Logger

	configPath  string
	reload      ReloadFunc
	configDirty atomic.Bool

	// Fixed at Run; a changed nav_file or content.dir needs a restart.
	navPath    string
	contentDir string
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithConfigReload watches the project config file at path and calls reload
// before rebuilding when it changes.
func WithConfigReload(path string, reload ReloadFunc) WatchOption {
	return func(w *Watcher) {
		w.configPath = path
		w.reload = reload
	}
}

// NewWatcher creates a watcher around gen. onBuild may be nil.
func NewWatcher(gen *Generator, debounce time.Duration, onBuild BuildFunc, opts ...WatchOption) *Watcher {
	if onBuild == nil {
		onBuild = func(*Result, error) {}
	}
	if debounce <= 0 {
		debounce = config.DefaultDebounce
	}
	w := &Watcher{
		gen:      gen,
		debounce: debounce,
		onBuild:  onBuild,
		logger:   gen.logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial build and then rebuilds on change until ctx is done.
// A failed build is reported through onBuild and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.onBuild(w.gen.Build())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w.contentDir = w.gen.ContentDir()
	w.navPath = w.gen.NavPath()
	if err := w.watchDir(watcher, w.contentDir); err != nil {
		return fmt.Errorf("failed to watch content dir: %w", err)
	}
	if err := addDir(watcher, filepath.Dir(w.navPath)); err != nil {
		return fmt.Errorf("failed to watch navigation file: %w", err)
	}
	if w.reload != nil && w.configPath != "" {
		if err := addDir(watcher, filepath.Dir(w.configPath)); err != nil {
			return fmt.Errorf("failed to watch config file: %w", err)
		}
	}

	w.logger.Info("watching for changes",
		slog.String("content", w.contentDir),
		slog.String("nav", w.navPath))

	g, ctx := errgroup.WithContext(ctx)
	rebuild := make(chan string, 1)

	g.Go(func() error {
		return w.watchLoop(ctx, watcher, rebuild)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case name := <-rebuild:
				w.logger.Info("change detected", slog.String("file", filepath.Base(name)))
				if w.configDirty.Swap(false) {
					cfg, err := w.reload()
					if err != nil {
						w.onBuild(nil, fmt.Errorf("failed to reload %s: %w", filepath.Base(name), err))
						continue
					}
					w.gen = w.gen.withConfig(cfg)
				}
				w.onBuild(w.gen.Build())
			}
		}
	})

	return g.Wait()
}

// watchDir recursively adds a directory to the watcher.
func (w *Watcher) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop turns file system events into debounced rebuild requests.
func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuild chan<- string) error {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	schedule := func(name string) {
		if w.isConfig(name) {
			w.configDirty.Store(true)
		}
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(w.debounce, func() {
			select {
			case rebuild <- name:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if skipDir(info.Name()) || !w.inContent(event.Name) {
						continue
					}
					// A directory moved in may already hold documents.
					if err := w.watchDir(watcher, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
					schedule(event.Name)
					continue
				}
			}

			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.inContent(event.Name) && !skipDir(filepath.Base(event.Name)) {
				// The name may have been a directory; its pages are gone either way.
				schedule(event.Name)
				continue
			}

			if w.relevant(event.Name) {
				schedule(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	if filepath.Clean(name) == filepath.Clean(w.navPath) || w.isConfig(name) {
		return true
	}
	return filepath.Ext(name) == ".md" && w.inContent(name)
}

func (w *Watcher) isConfig(name string) bool {
	return w.reload != nil && w.configPath != "" && filepath.Clean(name) == filepath.Clean(w.configPath)
}

func (w *Watcher) inContent(name string) bool {
	rel, err := filepath.Rel(w.contentDir, name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func addDir(watcher *fsnotify.Watcher, dir string) error {
	if contains(watcher.WatchList(), dir) {
		return nil
	}
	return watcher.Add(dir)
}

func skipDir(name string) bool {
	return name == "node_modules" || (len(name) > 0 && name[0] == '.')
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if filepath.Clean(v) == filepath.Clean(s) {
			return true
		}
	}
	return false
}
