// Package watch reports changes to templates, partials and data files so
// the output can be rendered again.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FS is a file system rooted at a directory. Every file read through it is
// watched for changes.
type FS struct {
	root    string
	fsys    fs.FS
	watcher *fsnotify.Watcher
	changed chan string
	Errors  chan error
	done    chan struct{}

	mu      sync.Mutex
	watched map[string]bool
	added   map[string]bool
}

// NewFS returns an FS reading from the directory root.
func NewFS(root string) (*FS, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &FS{
		root:    root,
		fsys:    os.DirFS(root),
		watcher: watcher,
		watched: map[string]bool{},
		added:   map[string]bool{},
		changed: make(chan string, 1),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *FS) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				// Editors that save by renaming a new file over the old one
				// end the watch on the old file.
				w.forget(event.Name)
			}
			select {
			case w.changed <- filepath.ToSlash(event.Name):
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// Changed returns the channel receiving the paths of changed files.
func (w *FS) Changed() <-chan string {
	return w.changed
}

// Close stops watching.
func (w *FS) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// Open implements fs.FS.
func (w *FS) Open(name string) (fs.File, error) {
	f, err := w.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	if err := w.watchName(name); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ReadFile implements fs.ReadFileFS.
func (w *FS) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(w.fsys, name)
	if err != nil {
		return nil, err
	}
	if err := w.watchName(name); err != nil {
		return nil, err
	}
	return data, nil
}

// Add watches a file outside the file system, such as the template or
// the data file.
func (w *FS) Add(path string) error {
	if err := w.watch(path); err != nil {
		return err
	}
	w.mu.Lock()
	w.added[path] = true
	w.mu.Unlock()
	return nil
}

// forget drops a file whose watch has ended. Files read through the FS are
// watched again on their next read; files given to Add are watched again
// now if they exist.
func (w *FS) forget(path string) {
	w.mu.Lock()
	delete(w.watched, path)
	readd := w.added[path]
	w.mu.Unlock()
	if readd {
		_ = w.watch(path)
	}
}

func (w *FS) watchName(name string) error {
	return w.watch(filepath.Join(w.root, filepath.FromSlash(name)))
}

func (w *FS) watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[path] {
		return nil
	}
	if err := w.watcher.Add(path); err != nil {
		return err
	}
	w.watched[path] = true
	return nil
}

// Watched returns the number of files being watched.
func (w *FS) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}
