// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dotconf

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch re-parses the configuration file whenever it changes on disk,
// invalidating the cached unified view and invoking onChange (which may be
// nil) with the refreshed configuration. Parse must have discovered a
// configuration file first.
//
// The watcher observes the file's directory rather than the file itself, so
// editors and config-management tools that replace the file atomically are
// still picked up. Watching stops when ctx is cancelled; reload failures are
// logged and watching continues with the previous file layer intact.
func (r *Resolver) Watch(ctx context.Context, onChange func(DotMap)) error {
	r.mu.RLock()
	file := r.file
	logger := r.logger
	r.mu.RUnlock()
	if file == "" {
		return fmt.Errorf("%w: no config file to watch, call Parse first", ErrConfig)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create watcher: %w", ErrConfig, err)
	}
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		watcher.Close()
		return fmt.Errorf("%w: watch %s: %w", ErrConfig, filepath.Dir(file), err)
	}

	go r.processEvents(ctx, watcher, logger, file, onChange)

	logger.Info().Str("file", file).Msg("watching config file")
	return nil
}

func (r *Resolver) processEvents(ctx context.Context, watcher *fsnotify.Watcher, logger zerolog.Logger, file string, onChange func(DotMap)) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			r.mu.Lock()
			err := r.parseFile(true)
			r.mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Str("file", file).Msg("config reload failed")
				continue
			}

			logger.Debug().Str("file", file).Msg("config file reloaded")
			if onChange != nil {
				onChange(r.Config())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}
