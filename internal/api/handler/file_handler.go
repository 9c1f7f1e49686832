package handler

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/api/metrics"
	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// maxUploadBytes bounds a single upload.
const maxUploadBytes = 16 << 20

type FileHandler struct {
	files ports.FileService
	log   zerolog.Logger
}

func NewFileHandler(files ports.FileService, log zerolog.Logger) *FileHandler {
	return &FileHandler{files: files, log: log}
}

type fileTitleRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type deleteFileResponse struct {
	File    *domain.File `json:"file"`
	Warning string       `json:"warning,omitempty"`
}

// Upload stores the multipart "file" field.
//
// @Summary      Upload a file
// @Tags         files
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  domain.File
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /upload [post]
func (h *FileHandler) Upload(c echo.Context) error {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, http.ErrMissingFile) {
			return domain.NewValidationError("no file part")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	file, err := h.files.Upload(c.Request().Context(), sessionOf(c), fh.Filename, src)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(uploadResult(err)).Inc()
		return err
	}
	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, file)
}

func uploadResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnauthenticated):
		return "rejected"
	case errors.Is(err, domain.ErrCollisionExhausted):
		return "collision_exhausted"
	default:
		return "error"
	}
}

// List returns all file records.
//
// @Summary      List files
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.File
// @Router       /admin/files [get]
func (h *FileHandler) List(c echo.Context) error {
	files, err := h.files.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, files)
}

// Update renames a file's title.
//
// @Summary      Update a file title
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "File ID"
// @Param        body  body      fileTitleRequest  true  "New title"
// @Success      200   {object}  domain.File
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /files/{id} [put]
func (h *FileHandler) Update(c echo.Context) error {
	var req fileTitleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	file, err := h.files.Update(c.Request().Context(), sessionOf(c), c.Param("id"), req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

// Delete removes a file record and its stored bytes.
//
// @Summary      Delete a file
// @Tags         files
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  deleteFileResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /files/{id} [delete]
func (h *FileHandler) Delete(c echo.Context) error {
	res, err := h.files.Delete(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return err
	}
	if res.Warning != "" {
		metrics.FileRemovalWarningsTotal.Inc()
	}
	return c.JSON(http.StatusOK, deleteFileResponse{File: res.File, Warning: res.Warning})
}

// Serve streams a stored upload.
//
// @Summary      Download an upload
// @Tags         files
// @Param        path  path  string  true  "Stored file path"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{path} [get]
func (h *FileHandler) Serve(c echo.Context) error {
	name := c.Param("*")
	rc, err := h.files.Open(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.log.Warn().Str("path", name).Str("ip", c.RealIP()).Msg("upload path outside storage root")
			return domain.ErrNotFound
		}
		return err
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, ctype, rc)
}
