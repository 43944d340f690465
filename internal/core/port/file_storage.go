package port

import (
	"context"
	"io"
)

// Upload - файл из multipart-запроса
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// FileStoragePort хранит изображения объектов
type FileStoragePort interface {
	// Save возвращает публичный путь вида /media/...
	Save(ctx context.Context, folder string, upload Upload) (string, error)
	// Delete по публичному пути. Отсутствующий файл не ошибка.
	Delete(ctx context.Context, publicPath string) error
}
