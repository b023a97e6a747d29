package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TuningFiles are the documents LoadTuning reads.
var TuningFiles = []string{"world.yaml", "player.yaml", "zombie.yaml", "interactive.yaml", "items.yaml"}

// settle is how long a file must stay untouched before it is reported.
const settle = 100 * time.Millisecond

// Watcher reports tuning documents and brain scripts that changed on disk.
// Editors often write a file in several steps; a name is sent once the file
// has been quiet for settle.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan string
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:     fw,
		Events: make(chan string, len(TuningFiles)),
		Errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Events and Errors are closed once the loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := make(map[string]time.Time)
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !Watched(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case now := <-tick.C:
			if !w.flush(pending, now) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}

// flush sends the settled names in order. It reports false once closed.
func (w *Watcher) flush(pending map[string]time.Time, now time.Time) bool {
	var ready []string
	for name, at := range pending {
		if now.Sub(at) >= settle {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)
	for _, name := range ready {
		delete(pending, name)
		select {
		case w.Events <- name:
		case <-w.done:
			return false
		}
	}
	return true
}

// Watched reports whether a change to path can affect the loaded tuning or a
// zombie brain.
func Watched(path string) bool {
	return IsTuningFile(path) || IsScriptFile(path)
}

func IsTuningFile(path string) bool {
	return slices.Contains(TuningFiles, strings.ToLower(filepath.Base(path)))
}

func IsScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
