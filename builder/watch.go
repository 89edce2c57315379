package builder

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Editors often write a file in several steps. Events closer together than
// this trigger a single rebuild.
const watchSettle = 100 * time.Millisecond

// Watch builds once, then rebuilds every time a source is written or
// recreated. Each outcome is passed to fn. Watch returns nil once ctx is done.
func Watch(ctx context.Context, options Options, fn func(Result, error)) error {
	if len(options.Sources) == 0 {
		return ErrNoSources
	}
	logger := options.logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	// Watch the directories, since some editors replace files by renaming
	sources := map[string]bool{}
	dirs := map[string]bool{}
	for _, source := range options.Sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			return err
		}
		sources[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}

	fn(Build(ctx, options))

	var timer *time.Timer
	var settled <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sources[filepath.Clean(event.Name)] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("source changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))

			if timer == nil {
				timer = time.NewTimer(watchSettle)
			} else {
				timer.Reset(watchSettle)
			}
			settled = timer.C
		case <-settled:
			settled = nil
			fn(Build(ctx, options))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Result{}, errors.Wrap(err, "file watcher"))
		}
	}
}
