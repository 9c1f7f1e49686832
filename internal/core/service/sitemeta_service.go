package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// SiteMetaService resolves the site configuration. It is read on every
// request and never cached.
type SiteMetaService struct {
	repo   ports.SiteMetaRepository
	guard  AccessGuard
	logger zerolog.Logger
}

func NewSiteMetaService(repo ports.SiteMetaRepository, logger zerolog.Logger) *SiteMetaService {
	return &SiteMetaService{repo: repo, guard: NewAccessGuard(), logger: logger}
}

// Load returns the stored configuration with defaults for absent fields. A
// missing record yields the defaults; nothing is written back.
func (s *SiteMetaService) Load(ctx context.Context) (domain.SiteMeta, error) {
	fields, err := s.repo.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SiteMetaFields{}.WithDefaults(), nil
	}
	if err != nil {
		return domain.SiteMeta{}, fmt.Errorf("load site meta: %w", err)
	}
	return fields.WithDefaults(), nil
}

// Save writes the supplied fields and returns the resulting configuration.
func (s *SiteMetaService) Save(ctx context.Context, session domain.Session, fields domain.SiteMetaFields) (domain.SiteMeta, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return domain.SiteMeta{}, err
	}
	if fields.IsEmpty() {
		return domain.SiteMeta{}, domain.NewValidationError("no fields to update")
	}
	if err := s.repo.Save(ctx, fields); err != nil {
		return domain.SiteMeta{}, fmt.Errorf("save site meta: %w", err)
	}
	s.logger.Info().Str("by", session.Username).Msg("site meta updated")
	return s.Load(ctx)
}

// EnsureDefaults stores the brand and theme defaults when no record exists.
func (s *SiteMetaService) EnsureDefaults(ctx context.Context) (bool, error) {
	_, err := s.repo.Load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	brand, theme := domain.DefaultBrand, domain.DefaultTheme
	if err := s.repo.Save(ctx, domain.SiteMetaFields{Brand: &brand, Theme: &theme}); err != nil {
		return false, fmt.Errorf("seed site meta: %w", err)
	}
	return true, nil
}
