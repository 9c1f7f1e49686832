package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/api/middleware"
	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

var (
	alice = domain.Session{Username: "alice", Authenticated: true}
	admin = domain.Session{Username: "root", Authenticated: true, Admin: true}
)

// newContext builds an echo context carrying session, with the validator
// installed as the router would.
func newContext(req *http.Request, session domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetSession(c, session)
	return c, rec
}

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (string, *domain.User, error)
	logoutFn  func(ctx context.Context, id string, exp time.Time) error
	resolveFn func(ctx context.Context, token string) (*ports.SessionToken, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, id string, exp time.Time) error {
	return s.logoutFn(ctx, id, exp)
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*ports.SessionToken, error) {
	return s.resolveFn(ctx, token)
}

type stubContentService struct {
	ports.ContentService
	viewFn   func(ctx context.Context, s domain.Session, slug string) (*domain.Page, error)
	saveFn   func(ctx context.Context, s domain.Session, in ports.PageInput) (*domain.Page, error)
	deleteFn func(ctx context.Context, s domain.Session, id string) error
	searchFn func(ctx context.Context, s domain.Session, term string) ([]*domain.Page, error)
}

func (s *stubContentService) View(ctx context.Context, session domain.Session, slug string) (*domain.Page, error) {
	return s.viewFn(ctx, session, slug)
}

func (s *stubContentService) Save(ctx context.Context, session domain.Session, in ports.PageInput) (*domain.Page, error) {
	return s.saveFn(ctx, session, in)
}

func (s *stubContentService) SoftDelete(ctx context.Context, session domain.Session, id string) error {
	return s.deleteFn(ctx, session, id)
}

func (s *stubContentService) Search(ctx context.Context, session domain.Session, term string) ([]*domain.Page, error) {
	return s.searchFn(ctx, session, term)
}

type stubMetaService struct {
	meta  domain.SiteMeta
	saved *domain.SiteMetaFields
}

func (s *stubMetaService) Load(context.Context) (domain.SiteMeta, error) {
	return s.meta, nil
}

func (s *stubMetaService) Save(_ context.Context, _ domain.Session, f domain.SiteMetaFields) (domain.SiteMeta, error) {
	s.saved = &f
	return f.WithDefaults(), nil
}

type stubUserService struct {
	ports.UserService
	firstUseFn   func(ctx context.Context, username, password, confirm string) (*domain.User, error)
	hardDeleteFn func(ctx context.Context, s domain.Session, id string) (int64, error)
	createFn     func(ctx context.Context, s domain.Session, in ports.UserInput) (*domain.User, error)
	updateFn     func(ctx context.Context, s domain.Session, id string, in ports.UserInput) (*domain.User, error)
}

func (s *stubUserService) FirstUse(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	return s.firstUseFn(ctx, username, password, confirm)
}

func (s *stubUserService) HardDelete(ctx context.Context, session domain.Session, id string) (int64, error) {
	return s.hardDeleteFn(ctx, session, id)
}

func (s *stubUserService) Update(ctx context.Context, session domain.Session, id string, in ports.UserInput) (*domain.User, error) {
	return s.updateFn(ctx, session, id, in)
}

func (s *stubUserService) Create(ctx context.Context, session domain.Session, in ports.UserInput) (*domain.User, error) {
	return s.createFn(ctx, session, in)
}

type stubFileService struct {
	ports.FileService
	uploadFn func(ctx context.Context, s domain.Session, name string, r io.Reader) (*domain.File, error)
	deleteFn func(ctx context.Context, s domain.Session, id string) (*ports.DeleteFileResult, error)
	openFn   func(ctx context.Context, p string) (io.ReadCloser, error)
}

func (s *stubFileService) Upload(ctx context.Context, session domain.Session, name string, r io.Reader) (*domain.File, error) {
	return s.uploadFn(ctx, session, name, r)
}

func (s *stubFileService) Delete(ctx context.Context, session domain.Session, id string) (*ports.DeleteFileResult, error) {
	return s.deleteFn(ctx, session, id)
}

func (s *stubFileService) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	return s.openFn(ctx, p)
}
