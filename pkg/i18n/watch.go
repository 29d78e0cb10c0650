package i18n

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-preview/pkg/retry"
)

// Watch reloads the bundle at path into c whenever the file is written,
// created or renamed over. The containing directory is watched so editors
// that replace the file are picked up too. Reads are retried briefly since
// the writer may not be done yet; a bundle that still fails to load leaves
// the previous translations in place.
//
// Watch blocks until ctx is done and returns nil, or returns the error that
// prevented watching.
func (c *Catalog) Watch(ctx context.Context, path string, logger *zap.Logger) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve translations path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create translations watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			c.reload(ctx, target, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Translations watcher error", zap.Error(err))
		}
	}
}

func (c *Catalog) reload(ctx context.Context, path string, logger *zap.Logger) {
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		bundle, err := LoadBundle(path)
		if err != nil {
			return err
		}
		// A bundle that parses but names a bad locale will not improve.
		return retry.Permanent(c.Replace(bundle))
	})
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Keeping previous translations", zap.String("path", path), zap.Error(err))
		}
		return
	}
	logger.Info("Translations reloaded",
		zap.String("path", path),
		zap.Strings("locales", c.Locales()))
}
