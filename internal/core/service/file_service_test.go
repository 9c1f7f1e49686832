package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
)

func newTestFileService() (*FileService, *stubFileRepo, *memStorage) {
	repo := newStubFileRepo()
	storage := newMemStorage()
	svc := NewFileService(repo, storage, &lockSerializer{}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return svc, repo, storage
}

func TestFileService_Upload(t *testing.T) {
	svc, _, storage := newTestFileService()
	ctx := context.Background()

	first, err := svc.Upload(ctx, alice, "a.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if first.Filepath != "202610/a.jpg" || first.URL != "/uploads/202610/a.jpg" || first.Owner != "alice" {
		t.Fatalf("unexpected file: %+v", first)
	}

	second, err := svc.Upload(ctx, bob, "a.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("second Upload returned error: %v", err)
	}
	if second.Filepath != "202610/1.a.jpg" || second.Title != "1.a.jpg" {
		t.Fatalf("collision not resolved: %+v", second)
	}
	if string(storage.files["202610/a.jpg"]) != "one" {
		t.Fatalf("first upload was overwritten")
	}
}

func TestFileService_Upload_Rejects(t *testing.T) {
	svc, _, _ := newTestFileService()
	ctx := context.Background()

	if _, err := svc.Upload(ctx, anon, "a.jpg", strings.NewReader("")); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Upload(ctx, alice, "", strings.NewReader("")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := svc.Upload(ctx, alice, "run.exe", strings.NewReader("")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for extension, got %v", err)
	}
}

func TestFileService_Upload_Concurrent(t *testing.T) {
	svc, repo, storage := newTestFileService()
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Upload(ctx, alice, "same.png", strings.NewReader("x")); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent upload failed: %v", err)
	}
	if len(storage.files) != n || len(repo.files) != n {
		t.Fatalf("expected %d distinct files, got %d stored and %d recorded", n, len(storage.files), len(repo.files))
	}
}

func TestFileService_Delete(t *testing.T) {
	svc, repo, storage := newTestFileService()
	ctx := context.Background()

	f, _ := svc.Upload(ctx, alice, "doc.pdf", strings.NewReader("pdf"))

	if _, err := svc.Delete(ctx, bob, f.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	res, err := svc.Delete(ctx, alice, f.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("unexpected warning %q", res.Warning)
	}
	if len(repo.files) != 0 || len(storage.files) != 0 {
		t.Fatalf("file not fully removed")
	}
}

func TestFileService_Delete_PhysicalFailureWarns(t *testing.T) {
	svc, repo, storage := newTestFileService()
	ctx := context.Background()

	f, _ := svc.Upload(ctx, alice, "doc.pdf", strings.NewReader("pdf"))
	storage.removeErr = errors.New("permission denied")

	res, err := svc.Delete(ctx, admin, f.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if res.Warning == "" {
		t.Fatalf("expected a warning")
	}
	if len(repo.files) != 0 {
		t.Fatalf("metadata should be gone")
	}
}

func TestFileService_UpdateAndList(t *testing.T) {
	svc, _, _ := newTestFileService()
	ctx := context.Background()

	f, _ := svc.Upload(ctx, alice, "logo.gif", strings.NewReader("gif"))

	if _, err := svc.Update(ctx, alice, f.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	updated, err := svc.Update(ctx, alice, f.ID, "Logo")
	if err != nil || updated.Title != "Logo" {
		t.Fatalf("Update failed: %v %+v", err, updated)
	}
	if _, err := svc.List(ctx, alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	files, err := svc.List(ctx, admin)
	if err != nil || len(files) != 1 {
		t.Fatalf("unexpected listing: %v %d", err, len(files))
	}
}

func TestFileService_Open(t *testing.T) {
	svc, _, _ := newTestFileService()
	ctx := context.Background()

	_, _ = svc.Upload(ctx, alice, "note.txt", strings.NewReader("hello"))

	rc, err := svc.Open(ctx, "../202610/note.txt")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
	if _, err := svc.Open(ctx, "/"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
