// Mgmt
// Copyright (C) 2013-2024+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package statement

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/purpleidea/hal/util"
	"github.com/purpleidea/hal/util/errwrap"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Watcher is a context which is loaded from a file and reloaded whenever that
// file changes. If a reload fails, the previous context is kept. Run Init() on
// it before use, and then Run() to start watching.
type Watcher struct {
	// Path is the statement context file to load and watch.
	Path string

	// Fs is the filesystem to load from. It defaults to the os filesystem.
	// Watching always uses the real filesystem.
	Fs afero.Fs

	Debug bool
	Logf  func(format string, v ...interface{})

	mutex   sync.RWMutex
	current *Static
	reloads int
}

// Init loads the file for the first time.
func (obj *Watcher) Init() error {
	if obj.Path == "" {
		return fmt.Errorf("the Path is empty")
	}
	if obj.Fs == nil {
		obj.Fs = afero.NewOsFs()
	}
	if obj.Logf == nil {
		obj.Logf = util.Nologf
	}
	sc, err := LoadFile(obj.Fs, obj.Path)
	if err != nil {
		return err
	}
	obj.mutex.Lock()
	obj.current = sc
	obj.mutex.Unlock()
	return nil
}

// Reload loads the file again. On error, the old context stays in place.
func (obj *Watcher) Reload() error {
	sc, err := LoadFile(obj.Fs, obj.Path)
	if err != nil {
		return err
	}
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	obj.current = sc
	obj.reloads++
	return nil
}

// Reloads returns the number of successful reloads since Init.
func (obj *Watcher) Reloads() int {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	return obj.reloads
}

// Current returns the context that is loaded right now.
func (obj *Watcher) Current() *Static {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	return obj.current
}

// active returns the current context, or an empty one before Init.
func (obj *Watcher) active() Context {
	if sc := obj.Current(); sc != nil {
		return sc
	}
	return Empty{}
}

// Run watches the file until the context is cancelled. The parent directory is
// watched, since many editors replace a file instead of writing to it.
func (obj *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errwrap.Wrapf(err, "could not start watcher")
	}
	defer watcher.Close()

	path := filepath.Clean(obj.Path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errwrap.Wrapf(err, "could not watch: %s", path)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if obj.Debug {
				obj.Logf("event: %s", event)
			}
			if err := obj.Reload(); err != nil {
				obj.Logf("reload failed, keeping previous context: %v", err)
				continue
			}
			obj.Logf("reloaded: %s", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			obj.Logf("watch error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// Resolve uses the current context.
func (obj *Watcher) Resolve(name string) (string, bool) {
	return obj.active().Resolve(name)
}

// ResolveTuple uses the current context.
func (obj *Watcher) ResolveTuple(name string) (Tuple, bool) {
	return obj.active().ResolveTuple(name)
}

// Collect uses the current context.
func (obj *Watcher) Collect(name string) []string {
	return obj.active().Collect(name)
}

// CollectTuples uses the current context.
func (obj *Watcher) CollectTuples(name string) []Tuple {
	return obj.active().CollectTuples(name)
}
