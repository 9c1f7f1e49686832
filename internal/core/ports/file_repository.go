package ports

import (
	"context"
	"io"

	"github.com/fpress/content-system/internal/core/domain"
)

// FileRepository defines persistence operations for uploaded-file metadata.
type FileRepository interface {
	Insert(ctx context.Context, file *domain.File) (*domain.File, error)
	FindByID(ctx context.Context, id string) (*domain.File, error)
	UpdateTitle(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.File, error)
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
}

// FileStorage is the physical file store. Paths are slash-separated and
// relative to the store root.
type FileStorage interface {
	Exists(path string) (bool, error)
	MkdirAll(dir string) error
	// Create writes r to a new file and fails if path already exists.
	Create(path string, r io.Reader) (int64, error)
	Remove(path string) error
	Open(path string) (io.ReadCloser, error)
}

// KeyedSerializer runs fn so that no two calls sharing a key overlap.
type KeyedSerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
