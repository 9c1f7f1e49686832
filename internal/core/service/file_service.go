package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// FileService stores uploads on disk and their metadata in the repository.
type FileService struct {
	repo    ports.FileRepository
	storage ports.FileStorage
	namer   *FileNamer
	serial  ports.KeyedSerializer
	guard   AccessGuard
	now     func() time.Time
	logger  zerolog.Logger
}

func NewFileService(
	repo ports.FileRepository,
	storage ports.FileStorage,
	serial ports.KeyedSerializer,
	logger zerolog.Logger,
) *FileService {
	return &FileService{
		repo:    repo,
		storage: storage,
		namer:   NewFileNamer(storage),
		serial:  serial,
		guard:   NewAccessGuard(),
		now:     time.Now,
		logger:  logger,
	}
}

// Upload writes content under the current month's bucket with a name that
// does not clobber an existing file, then records its metadata.
func (s *FileService) Upload(ctx context.Context, session domain.Session, filename string, content io.Reader) (*domain.File, error) {
	if !session.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(filename) == "" {
		return nil, domain.NewValidationError("no file selected")
	}
	if !domain.AllowedFile(filename) {
		return nil, domain.NewValidationError("file type not allowed")
	}

	now := s.now().UTC()
	bucket := UploadBucket(now)

	var stored string
	err := s.serial.Do(ctx, bucket, func(ctx context.Context) error {
		if err := s.storage.MkdirAll(bucket); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		name, err := s.namer.Resolve(ctx, bucket, filename)
		if err != nil {
			return err
		}
		stored = path.Join(bucket, name)
		if _, err := s.storage.Create(stored, content); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCollisionExhausted) {
			s.logger.Error().
				Str("filename", filename).
				Str("by", session.Username).
				Str("bucket", bucket).
				Msg("filename collisions exhausted, possible abuse")
		}
		return nil, err
	}

	file := &domain.File{
		Title:     path.Base(stored),
		Filepath:  stored,
		Owner:     session.Username,
		URL:       domain.FileURL(stored),
		CreatedAt: now,
	}
	created, err := s.repo.Insert(ctx, file)
	if err != nil {
		s.logger.Error().Err(err).Str("filepath", stored).Msg("file written but metadata insert failed")
		return nil, fmt.Errorf("record file: %w", err)
	}

	s.logger.Info().Str("filepath", stored).Str("owner", session.Username).Msg("file uploaded")
	return created, nil
}

// Update changes the title of a file.
func (s *FileService) Update(ctx context.Context, session domain.Session, id, title string) (*domain.File, error) {
	file, err := s.authorizedFile(ctx, session, id, domain.OpUpdate)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if err := s.repo.UpdateTitle(ctx, file.ID, title); err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}
	file.Title = title
	return file, nil
}

// Delete removes the metadata, then the stored bytes. A failed physical
// removal is reported as a warning and not rolled back.
func (s *FileService) Delete(ctx context.Context, session domain.Session, id string) (*ports.DeleteFileResult, error) {
	file, err := s.authorizedFile(ctx, session, id, domain.OpDelete)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("delete file record: %w", err)
	}

	result := &ports.DeleteFileResult{File: file}
	if err := s.storage.Remove(file.Filepath); err != nil {
		s.logger.Warn().Err(err).Str("filepath", file.Filepath).Msg("file record deleted but removing the file failed")
		result.Warning = fmt.Sprintf("record deleted but %s could not be removed", file.Filepath)
	}
	return result, nil
}

func (s *FileService) authorizedFile(ctx context.Context, session domain.Session, id string, op domain.Operation) (*domain.File, error) {
	if !session.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(session, file.Owner, op); err != nil {
		return nil, err
	}
	return file, nil
}

// List returns all file records. Admin only.
func (s *FileService) List(ctx context.Context, session domain.Session) ([]*domain.File, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Open returns the stored bytes for a relative upload path.
func (s *FileService) Open(_ context.Context, filepath string) (io.ReadCloser, error) {
	clean := strings.TrimPrefix(path.Clean("/"+filepath), "/")
	if clean == "" {
		return nil, domain.ErrNotFound
	}
	return s.storage.Open(clean)
}
