package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fpress/content-system/internal/core/domain"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a.jpg", "a.jpg"},
		{"My Photo.PNG", "My_Photo.PNG"},
		{"../../etc/passwd", "etc_passwd"},
		{`..\..\win.txt`, "win.txt"},
		{".hidden.txt", "hidden.txt"},
		{"ñandú.gif", "and.gif"},
		{"???", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUploadBucket(t *testing.T) {
	if got := UploadBucket(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)); got != "202603" {
		t.Fatalf("UploadBucket = %q", got)
	}
}

func TestFileNamer_Resolve(t *testing.T) {
	storage := newMemStorage()
	namer := NewFileNamer(storage)
	ctx := context.Background()

	want := []string{"a.jpg", "1.a.jpg", "2.a.jpg"}
	for _, expected := range want {
		name, err := namer.Resolve(ctx, "202610", "a.jpg")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if name != expected {
			t.Fatalf("expected %q, got %q", expected, name)
		}
		_, _ = storage.Create("202610/"+name, strings.NewReader("x"))
	}

	name, _ := namer.Resolve(ctx, "202611", "a.jpg")
	if name != "a.jpg" {
		t.Fatalf("other buckets are independent, got %q", name)
	}
}

func TestFileNamer_Resolve_Exhausted(t *testing.T) {
	storage := newMemStorage()
	namer := NewFileNamer(storage)

	_, _ = storage.Create("d/a.jpg", strings.NewReader(""))
	for i := 1; i < MaxNameAttempts; i++ {
		_, _ = storage.Create("d/"+strconv.Itoa(i)+".a.jpg", strings.NewReader(""))
	}

	if _, err := namer.Resolve(context.Background(), "d", "a.jpg"); !errors.Is(err, domain.ErrCollisionExhausted) {
		t.Fatalf("expected ErrCollisionExhausted, got %v", err)
	}
}

func TestFileNamer_Resolve_EmptyName(t *testing.T) {
	namer := NewFileNamer(newMemStorage())
	if _, err := namer.Resolve(context.Background(), "d", "///"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
