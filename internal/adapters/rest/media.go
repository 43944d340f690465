package rest

import (
	"net/http"
	"os"
)

// mediaFS отдает только файлы: каталоги выглядят как отсутствующие,
// поэтому FileServer не строит листинг и не ищет index.html
type mediaFS struct {
	fs http.FileSystem
}

func newMediaFS(root string) http.FileSystem {
	return mediaFS{fs: http.Dir(root)}
}

func (m mediaFS) Open(name string) (http.File, error) {
	f, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
