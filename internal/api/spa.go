package api

import (
	"net/http"
	"os"
)

// spaFileSystem falls back to index.html for paths that are not files, so
// client-side routes load the dashboard.
type spaFileSystem struct {
	root http.FileSystem
}

func (s *spaFileSystem) Open(name string) (http.File, error) {
	f, err := s.root.Open(name)
	if os.IsNotExist(err) {
		return s.root.Open("index.html")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
