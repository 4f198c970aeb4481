package main

import (
	"fmt"
	"path/filepath"

	"github.com/chazu/supportmesh/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// watch calls onChange each time path is written or recreated, until done
// is closed. The parent directory is watched so editors that replace the
// file on save are still seen.
func watch(path string, done <-chan struct{}, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	logging.Infof("watching %s", target)

	for {
		select {
		case <-done:
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				logging.Debugf("change detected: %s", ev)
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("watch error: %v", err)
		}
	}
}
