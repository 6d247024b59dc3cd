package muxhandlers

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
)

// ErrStaticFilesNoFS is returned when no file system is given.
var ErrStaticFilesNoFS = errors.New("static files: file system must not be nil")

// indexOnlyFS hides directories without an index.html so that
// http.FileServer answers 404 instead of listing them.
type indexOnlyFS struct {
	fs.FS
}

func (f indexOnlyFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if !info.IsDir() {
		return file, nil
	}

	if _, err := fs.Stat(f.FS, path.Join(name, "index.html")); err != nil {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// StaticFilesHandler serves files from fsys. Directories are served only
// through their index.html unless listing is enabled.
func StaticFilesHandler(fsys fs.FS, listing bool) (http.Handler, error) {
	if fsys == nil {
		return nil, ErrStaticFilesNoFS
	}
	if !listing {
		fsys = indexOnlyFS{FS: fsys}
	}
	return http.FileServerFS(fsys), nil
}
