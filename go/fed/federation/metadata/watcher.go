/*
Copyright 2026 The Fedgate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metadata

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"fedgate.io/fedgate/go/fed/log"
	"fedgate.io/fedgate/go/fed/rule"
)

// Watcher reloads a snapshot file when it changes on disk and hands every
// successfully parsed snapshot to OnChange. Snapshots that fail to load are
// logged and skipped, so OnChange only ever sees valid metadata.
type Watcher struct {
	path     string
	builders *rule.BuilderRegistry
	onChange func(context.Context, *FederationMetaData)

	// Settle is how long the watcher waits for writes to stop before
	// reloading.
	Settle time.Duration
	// MinInterval is the least time between two reloads. Zero reloads as
	// often as the file settles.
	MinInterval time.Duration
}

// NewWatcher returns a watcher of the snapshot at path.
func NewWatcher(path string, builders *rule.BuilderRegistry, onChange func(context.Context, *FederationMetaData)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		builders: builders,
		onChange: onChange,
		Settle:   100 * time.Millisecond,
	}
}

// Run watches until ctx is done. The directory is watched rather than the
// file so that editors replacing the file by rename are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if w.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(w.MinInterval), 1)
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Settle)
			} else {
				timer.Reset(w.Settle)
			}
			timerCh = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watching %s: %v", w.path, err)
		case <-timerCh:
			timerCh = nil
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	md, err := Load(w.path, w.builders)
	if err != nil {
		log.Errorf("reloading metadata, keeping the previous snapshot: %v", err)
		return
	}
	log.Infof("metadata snapshot %s reloaded: %d databases", w.path, len(md.Databases))
	w.onChange(ctx, md)
}
