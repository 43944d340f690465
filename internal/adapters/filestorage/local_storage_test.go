package filestorage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// минимальный валидный PNG 1x1
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestSaveAndDelete(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	publicPath, err := storage.Save(ctx, "properties", port.Upload{
		Filename:    "flat.png",
		ContentType: "image/png",
		Content:     bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, "/media/properties/"))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	local, err := storage.localPath(publicPath)
	require.NoError(t, err)
	stored, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	require.NoError(t, storage.Delete(ctx, publicPath))
	_, err = os.Stat(local)
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, storage.Delete(ctx, publicPath))
	assert.NoError(t, storage.Delete(ctx, ""))
}

func TestSaveRejectsNonImages(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Save(context.Background(), "properties", port.Upload{
		Filename:    "fake.png",
		ContentType: "image/png",
		Content:     strings.NewReader("definitely not an image"),
	})
	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "image")

	_, err = storage.Save(context.Background(), "properties", port.Upload{Content: bytes.NewReader(nil)})
	_, ok = domain.IsValidationError(err)
	assert.True(t, ok)
}

func TestLocalPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalFileStorage(root)
	require.NoError(t, err)

	local, err := storage.localPath("/media/../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(local, storage.Root()+string(filepath.Separator)))

	_, err = storage.localPath("/etc/passwd")
	assert.Error(t, err)
}
