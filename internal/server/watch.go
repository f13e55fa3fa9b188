package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/depgraph/pkg/httputil"
	"github.com/matzehuels/depgraph/pkg/pipeline"
)

// Watch reloads the graph whenever its file changes, until ctx is
// cancelled. Bursts of events are collapsed: a reload happens once no
// event has arrived for the configured debounce interval.
//
// The parent directory is watched rather than the file, so editors and
// generators that replace the file by rename are picked up too.
func (s *Server) Watch(ctx context.Context) error {
	if s.cfg.Path == pipeline.Stdin {
		return fmt.Errorf("watch: cannot watch standard input")
	}
	if httputil.IsURL(s.cfg.Path) {
		return fmt.Errorf("watch: cannot watch remote graph %s", s.cfg.Path)
	}
	target, err := filepath.Abs(s.cfg.Path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("watching graph file", "path", target)

	var timer *time.Timer
	reload := make(chan struct{}, 1)
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
			if !relevant(ev, target) {
				continue
			}
			s.logger.Debug("graph file changed", "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.cfg.Debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("reload failed, keeping previous graph", "error", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	return err == nil && name == target
}
