package photo

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["photo"][0]
}

func TestDiskStore_SaveAndResolve(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key, err := store.Save(fileHeader(t, "lamp.JPG", []byte("not really a jpeg")))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, ".jpg"), "extension should be kept, lowercased: %s", key)
	assert.NotContains(t, key, "lamp", "key must not leak the original filename")

	written, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("not really a jpeg"), written)

	assert.Equal(t, "http://localhost:8080/uploads/"+key, store.URL(key))
}

func TestDiskStore_KeysAreUnique(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	first, err := store.Save(fileHeader(t, "a.png", []byte("one")))
	require.NoError(t, err)
	second, err := store.Save(fileHeader(t, "a.png", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDiskStore_EmptyKeyHasNoURL(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.Equal(t, "", store.URL(""))
}
