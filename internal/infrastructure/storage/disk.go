// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpress/content-system/internal/core/domain"
)

// DiskStorage stores files under a root directory. Every path it receives is
// slash-separated and relative to that root; anything escaping the root is
// rejected.
type DiskStorage struct {
	root string
}

// NewDiskStorage creates root if needed and returns a storage rooted there.
func NewDiskStorage(root string) (*DiskStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{root: abs}, nil
}

// Root returns the absolute storage directory.
func (d *DiskStorage) Root() string {
	return d.root
}

func (d *DiskStorage) resolve(rel string) (string, error) {
	if rel == "" || strings.Contains(rel, "\x00") {
		return "", domain.ErrNotFound
	}
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if full != d.root && !strings.HasPrefix(full, d.root+string(os.PathSeparator)) {
		return "", domain.ErrForbidden
	}
	return full, nil
}

func (d *DiskStorage) Exists(rel string) (bool, error) {
	full, err := d.resolve(rel)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", rel, err)
}

func (d *DiskStorage) MkdirAll(dir string) error {
	full, err := d.resolve(dir)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}

// Create writes r to a new file. It never overwrites: an existing path fails
// with fs.ErrExist. A failed copy removes the partial file.
func (d *DiskStorage) Create(rel string, r io.Reader) (int64, error) {
	full, err := d.resolve(rel)
	if err != nil {
		return 0, err
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("write %s: %w", rel, err)
	}
	return n, nil
}

func (d *DiskStorage) Remove(rel string) error {
	full, err := d.resolve(rel)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// Open returns the file at rel for reading. Directories and missing files are
// reported as domain.ErrNotFound.
func (d *DiskStorage) Open(rel string) (io.ReadCloser, error) {
	full, err := d.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, domain.ErrNotFound
	}
	return os.Open(full)
}
