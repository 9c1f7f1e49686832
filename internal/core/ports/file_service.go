package ports

import (
	"context"
	"io"

	"github.com/fpress/content-system/internal/core/domain"
)

// DeleteFileResult reports the outcome of a file deletion. Warning is set
// when the metadata was removed but the physical file could not be.
type DeleteFileResult struct {
	File    *domain.File
	Warning string
}

// FileService defines the use cases around uploaded files.
type FileService interface {
	Upload(ctx context.Context, session domain.Session, filename string, content io.Reader) (*domain.File, error)
	Update(ctx context.Context, session domain.Session, id, title string) (*domain.File, error)
	Delete(ctx context.Context, session domain.Session, id string) (*DeleteFileResult, error)
	List(ctx context.Context, session domain.Session) ([]*domain.File, error)
	Open(ctx context.Context, filepath string) (io.ReadCloser, error)
}
