package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	PublicPrefix = "/media"
	// MaxImageSize - ограничение на размер одного изображения
	MaxImageSize = 10 << 20
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalFileStorage хранит изображения в MEDIA_ROOT и отдает пути под /media
type LocalFileStorage struct {
	root string
}

func NewLocalFileStorage(root string) (*LocalFileStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %q: %w", abs, err)
	}
	return &LocalFileStorage{root: abs}, nil
}

// Root - каталог для http.FileServer
func (s *LocalFileStorage) Root() string {
	return s.root
}

func imageError(msg string) error {
	verr := domain.NewValidationError()
	verr.Add("image", msg)
	return verr
}

func (s *LocalFileStorage) Save(ctx context.Context, folder string, upload port.Upload) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LocalFileStorage",
		"folder":    folder,
		"filename":  upload.Filename,
	})

	if upload.Content == nil {
		return "", imageError("file is empty")
	}
	data, err := io.ReadAll(io.LimitReader(upload.Content, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", imageError("file is empty")
	}
	if len(data) > MaxImageSize {
		return "", imageError("file is too large")
	}

	// тип определяем по содержимому, а не по заголовку клиента
	detected := mimetype.Detect(data)
	ext, ok := allowedImageTypes[detected.String()]
	if !ok {
		logger.Warn("Rejected upload with unsupported type", port.Fields{"mime": detected.String()})
		return "", imageError("upload a valid image")
	}

	dir := filepath.Join(s.root, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", dir, err)
	}

	name := uuid.NewString() + ext
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	publicPath := path.Join(PublicPrefix, path.Clean("/"+folder), name)
	logger.Info("Image stored", port.Fields{"path": publicPath, "size": len(data)})
	return publicPath, nil
}

// localPath переводит публичный путь в путь на диске, не выпуская за пределы root
func (s *LocalFileStorage) localPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, PublicPrefix+"/") {
		return "", fmt.Errorf("path %q is outside of %s", publicPath, PublicPrefix)
	}
	rel := path.Clean("/" + strings.TrimPrefix(publicPath, PublicPrefix))
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, publicPath string) error {
	if publicPath == "" {
		return nil
	}
	local, err := s.localPath(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image %q: %w", publicPath, err)
	}
	contextkeys.LoggerFromContext(ctx).Debug("Image deleted", port.Fields{"path": publicPath})
	return nil
}
