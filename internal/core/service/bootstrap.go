package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
)

// Bootstrapper seeds an empty site.
type Bootstrapper struct {
	content *ContentService
	users   *UserService
	meta    *SiteMetaService
	logger  zerolog.Logger
}

func NewBootstrapper(content *ContentService, users *UserService, meta *SiteMetaService, logger zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{content: content, users: users, meta: meta, logger: logger}
}

// Run creates the default pages and site record when absent. When
// adminUsername and adminPassword are both set it also ensures that admin
// account exists; otherwise the first admin is created through FirstUse.
func (b *Bootstrapper) Run(ctx context.Context, adminUsername, adminPassword string) error {
	owner := adminUsername
	if owner == "" {
		owner = domain.DefaultOwner
	}

	for _, page := range domain.DefaultPages(owner) {
		created, err := b.content.EnsurePage(ctx, page)
		if err != nil {
			return err
		}
		if created {
			b.logger.Info().Str("slug", page.Slug).Msg("default page created")
		}
	}

	created, err := b.meta.EnsureDefaults(ctx)
	if err != nil {
		return err
	}
	if created {
		b.logger.Info().Msg("default site meta created")
	}

	if adminUsername == "" || adminPassword == "" {
		return nil
	}
	created, err = b.users.EnsureAdmin(ctx, adminUsername, adminPassword)
	if err != nil {
		return err
	}
	if created {
		b.logger.Info().Str("username", adminUsername).Msg("admin account created")
	}
	return nil
}
