// Package storage keeps uploaded files on the local disk under a single root
// and hands back slash-separated paths relative to the serving prefix.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Kind selects the sub-directory and allowed extensions for an upload.
type Kind struct {
	Dir        string
	Extensions []string
}

var (
	GroundImage  = Kind{Dir: "grounds", Extensions: []string{".jpg", ".jpeg", ".png", ".webp"}}
	PaymentProof = Kind{Dir: "payments", Extensions: []string{".jpg", ".jpeg", ".png", ".pdf"}}
)

// Local writes files beneath Root.  Stored references look like
// "uploads/grounds/<uuid>.jpg" where "uploads" is URLPrefix.
type Local struct {
	Root      string
	URLPrefix string
	MaxBytes  int64

	create func(name string) (io.WriteCloser, error) // os.Create when nil
}

// URLPrefix is where the server mounts the upload root.
const URLPrefix = "uploads"

// NewLocal returns a store rooted at root whose references start with
// URLPrefix.
func NewLocal(root string, maxBytes int64) *Local {
	return &Local{Root: root, URLPrefix: URLPrefix, MaxBytes: maxBytes}
}

// Save copies the upload into kind's directory under a generated name and
// returns its reference.
func (l *Local) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	if l.MaxBytes > 0 && fh.Size > l.MaxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, l.MaxBytes)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed(kind, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(l.Root, kind.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	dst, err := l.createFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	var r io.Reader = src
	if l.MaxBytes > 0 {
		r = io.LimitReader(src, l.MaxBytes+1)
	}
	n, err := io.Copy(dst, r)
	if err == nil && l.MaxBytes > 0 && n > l.MaxBytes {
		err = fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, l.MaxBytes)
	}
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close file: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", err
	}
	return path.Join(l.URLPrefix, kind.Dir, name), nil
}

func (l *Local) createFile(name string) (io.WriteCloser, error) {
	if l.create != nil {
		return l.create(name)
	}
	return os.Create(name)
}

// Remove deletes previously saved references.  Missing files are ignored.
func (l *Local) Remove(refs ...string) {
	for _, ref := range refs {
		if p, ok := l.resolve(ref); ok {
			_ = os.Remove(p)
		}
	}
}

// resolve maps a reference back to a path under Root, refusing anything that
// would escape it.
func (l *Local) resolve(ref string) (string, bool) {
	rel := strings.TrimPrefix(path.Clean("/"+ref), "/"+l.URLPrefix+"/")
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return "", false
	}
	return filepath.Join(l.Root, filepath.FromSlash(rel)), true
}

func allowed(kind Kind, ext string) bool {
	for _, e := range kind.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
