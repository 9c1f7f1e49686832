package domain

import (
	"path"
	"strings"
	"time"
)

// UploadsPrefix is the URL prefix stored files are served under.
const UploadsPrefix = "/uploads/"

// allowedExtensions are the lower-cased extensions accepted for upload.
var allowedExtensions = map[string]struct{}{
	"txt":  {},
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// File is the metadata of an uploaded file. Filepath is relative to the
// upload root and bucketed by month, e.g. "202610/1.logo.png".
type File struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Filepath  string    `json:"filepath"`
	Owner     string    `json:"owner"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// AllowedFile reports whether filename carries an extension accepted for upload.
func AllowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

// FileURL derives the public URL of a stored file.
func FileURL(filepath string) string {
	return UploadsPrefix + strings.TrimPrefix(path.Clean("/"+filepath), "/")
}
