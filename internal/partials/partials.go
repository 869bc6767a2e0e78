// Package partials loads partial templates from a file system.
package partials

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
)

// FSLoader reads partials from an fs.FS. Partial names are slash-separated
// paths relative to the root of the file system.
type FSLoader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewFSLoader returns a loader reading from fsys. A nil logger discards.
func NewFSLoader(fsys fs.FS, logger *slog.Logger) *FSLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FSLoader{fsys: fsys, logger: logger}
}

// NewDirLoader returns a loader reading from the directory dir.
func NewDirLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir), nil)
}

// Load returns the content of the named partial. Names that escape the
// root, and files that cannot be read, are reported as absent.
func (l *FSLoader) Load(name string) (string, bool) {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	if !fs.ValidPath(name) || name == "." {
		l.logger.Debug("invalid partial name", slog.String("name", name))
		return "", false
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("cannot read partial", slog.String("name", name), slog.Any("error", err))
		}
		return "", false
	}
	return string(data), true
}
