package service

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// MaxNameAttempts bounds the collision loop. Running out is treated as abuse.
const MaxNameAttempts = 100

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// UploadBucket returns the year/month directory uploads made at t go into.
func UploadBucket(t time.Time) string {
	return t.Format("200601")
}

// SanitizeFilename reduces name to a safe single path element. Separators
// become underscores, other unsafe characters are dropped and leading or
// trailing dots and underscores are trimmed, so "../../etc/passwd" turns
// into "etc_passwd".
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// FileNamer picks a storage name that does not overwrite an existing file.
type FileNamer struct {
	storage ports.FileStorage
}

func NewFileNamer(storage ports.FileStorage) *FileNamer {
	return &FileNamer{storage: storage}
}

// Resolve returns a free name for desired inside dir. On collision it tries
// "1.<name>", "2.<name>", … and gives up with ErrCollisionExhausted after
// MaxNameAttempts collisions.
func (n *FileNamer) Resolve(ctx context.Context, dir, desired string) (string, error) {
	name := SanitizeFilename(desired)
	if name == "" {
		return "", domain.NewValidationError("filename is empty after sanitizing")
	}

	candidate := name
	for attempt := 1; attempt <= MaxNameAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		exists, err := n.storage.Exists(path.Join(dir, candidate))
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = strconv.Itoa(attempt) + "." + name
	}
	return "", domain.ErrCollisionExhausted
}
