package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
	"github.com/fpress/content-system/pkg/textutil"
)

type ContentService struct {
	repo   ports.PageRepository
	guard  AccessGuard
	now    func() time.Time
	logger zerolog.Logger
}

func NewContentService(repo ports.PageRepository, logger zerolog.Logger) *ContentService {
	return &ContentService{
		repo:   repo,
		guard:  NewAccessGuard(),
		now:    time.Now,
		logger: logger,
	}
}

// Get resolves a slug to its page regardless of who asks.
func (s *ContentService) Get(ctx context.Context, slug string) (*domain.Page, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// View resolves a slug for session. Drafts the session may not read are
// reported as missing.
func (s *ContentService) View(ctx context.Context, session domain.Session, slug string) (*domain.Page, error) {
	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanRead(session, page) {
		return nil, domain.ErrNotFound
	}
	return page, nil
}

// GetForEdit loads a page by ID for a session allowed to change it.
func (s *ContentService) GetForEdit(ctx context.Context, session domain.Session, id string) (*domain.Page, error) {
	if !session.Authenticated {
		return nil, domain.ErrUnauthenticated
	}
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(session, page.Owner, domain.OpUpdate); err != nil {
		return nil, err
	}
	return page, nil
}

// Save creates the page when input.ID is empty and updates it otherwise.
//
// On create the owner is the acting user, a missing slug is derived from the
// title and created_at is stamped. On update the owner and created_at are
// kept and modified_at is stamped. The snippet is recomputed every time.
func (s *ContentService) Save(ctx context.Context, session domain.Session, input ports.PageInput) (*domain.Page, error) {
	if !session.Authenticated {
		return nil, domain.ErrUnauthenticated
	}

	var page *domain.Page
	if input.ID == "" {
		page = &domain.Page{Owner: session.Username}
	} else {
		existing, err := s.repo.FindByID(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		if err := s.guard.Authorize(session, existing.Owner, domain.OpUpdate); err != nil {
			return nil, err
		}
		page = existing
	}

	applyPageInput(page, input)
	page.Snippet = textutil.Snippet(page.Content, textutil.DefaultSnippetLength)
	if page.Slug == "" {
		return nil, domain.NewValidationError("slug or title is required")
	}

	stamp := domain.FormatTimestamp(s.now())
	if input.ID == "" {
		page.CreatedAt = stamp
		created, err := s.repo.Insert(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}
		s.logger.Info().Str("slug", created.Slug).Str("owner", created.Owner).Msg("page created")
		return created, nil
	}

	page.ModifiedAt = stamp
	if err := s.repo.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	s.logger.Info().Str("slug", page.Slug).Str("by", session.Username).Msg("page updated")
	return page, nil
}

// applyPageInput copies the editable fields onto page and normalizes its slug.
func applyPageInput(page *domain.Page, in ports.PageInput) {
	page.Title = in.Title
	page.Content = in.Content
	page.IsPublished = in.IsPublished
	page.ShowTitle = in.ShowTitle
	page.ShowNav = in.ShowNav
	page.IsSidebar = in.IsSidebar
	page.IsMarkdown = in.IsMarkdown
	page.Template = in.Template
	page.SidebarLeft = in.SidebarLeft
	page.SidebarRight = in.SidebarRight
	page.Footer = in.Footer

	slug := in.Slug
	if strings.TrimSpace(slug) == "" {
		slug = in.Title
	}
	page.Slug = textutil.Slugify(slug)
}

// SoftDelete moves the page into the retention store. Only the owner or an
// admin may do so.
func (s *ContentService) SoftDelete(ctx context.Context, session domain.Session, id string) error {
	if !session.Authenticated {
		return domain.ErrUnauthenticated
	}
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(session, page.Owner, domain.OpDelete); err != nil {
		return err
	}

	retained := &domain.DeletedPage{
		Page:      *page,
		DeletedAt: s.now().UTC(),
		DeletedBy: session.Username,
	}
	if err := s.repo.MoveToRetention(ctx, retained); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	s.logger.Info().Str("slug", page.Slug).Str("by", session.Username).Msg("page moved to retention")
	return nil
}

// Search scans every active page for a case-insensitive substring of the raw
// content. Matches keep store order; pages the session may not read are
// skipped.
func (s *ContentService) Search(ctx context.Context, session domain.Session, term string) ([]*domain.Page, error) {
	pages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	needle := strings.ToLower(term)
	found := make([]*domain.Page, 0)
	for _, p := range pages {
		if !strings.Contains(strings.ToLower(p.Content), needle) {
			continue
		}
		if !s.guard.CanRead(session, p) {
			continue
		}
		found = append(found, p)
	}
	return found, nil
}

// List returns every active page. Admin only.
func (s *ContentService) List(ctx context.Context, session domain.Session) ([]*domain.Page, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// ListDeleted returns the retention store. Admin only.
func (s *ContentService) ListDeleted(ctx context.Context, session domain.Session) ([]*domain.DeletedPage, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	return s.repo.ListDeleted(ctx)
}

// EnsurePage inserts page unless its slug already resolves.
func (s *ContentService) EnsurePage(ctx context.Context, page domain.Page) (bool, error) {
	_, err := s.repo.FindBySlug(ctx, page.Slug)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	page.Snippet = textutil.Snippet(page.Content, textutil.DefaultSnippetLength)
	page.CreatedAt = domain.FormatTimestamp(s.now())
	if _, err := s.repo.Insert(ctx, &page); err != nil {
		return false, fmt.Errorf("seed page %q: %w", page.Slug, err)
	}
	return true, nil
}
