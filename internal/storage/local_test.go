package storage

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader the way a request would.
func fileHeader(t *testing.T, name string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocal_SaveAndRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store := NewLocal(root, 1024)

	ref, err := store.Save(fileHeader(t, "Pitch.JPG", []byte("jpeg-bytes")), GroundImage)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "uploads/grounds/"), ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), ref)

	onDisk := filepath.Join(root, "grounds", filepath.Base(ref))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	store.Remove(ref)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_RejectsTypeAndSize(t *testing.T) {
	store := NewLocal(filepath.Join(t.TempDir(), "uploads"), 4)

	_, err := store.Save(fileHeader(t, "script.sh", []byte("x")), GroundImage)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save(fileHeader(t, "big.png", []byte("too large")), GroundImage)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = store.Save(fileHeader(t, "receipt.pdf", []byte("ok")), PaymentProof)
	assert.NoError(t, err)
}

func TestLocal_RemoveIgnoresEscapes(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store := NewLocal(filepath.Join(dir, "uploads"), 0)
	store.Remove("uploads/../keep.txt", "../keep.txt")

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

// failingClose writes to a real file but reports a failed flush on Close.
type failingClose struct{ *os.File }

func (f failingClose) Close() error {
	_ = f.File.Close()
	return errors.New("disk quota exceeded")
}

func TestLocal_SaveReportsCloseError(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root, 1024)
	store.create = func(name string) (io.WriteCloser, error) {
		f, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		return failingClose{f}, nil
	}

	ref, err := store.Save(fileHeader(t, "proof.png", []byte("png-bytes")), PaymentProof)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk quota exceeded")
	assert.Empty(t, ref)

	entries, err := os.ReadDir(filepath.Join(root, "payments"))
	require.NoError(t, err)
	assert.Empty(t, entries, "the partial file is removed")
}
