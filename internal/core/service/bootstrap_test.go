package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
)

func TestBootstrapper_Run(t *testing.T) {
	pages := newStubPageRepo()
	users := newStubUserRepo()
	meta := &stubMetaRepo{}

	content := NewContentService(pages, zerolog.Nop())
	userSvc := NewUserService(users, pages, newStubFileRepo(), plainHasher{}, zerolog.Nop())
	metaSvc := NewSiteMetaService(meta, zerolog.Nop())
	b := NewBootstrapper(content, userSvc, metaSvc, zerolog.Nop())
	ctx := context.Background()

	if err := b.Run(ctx, "", ""); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	home, err := content.Get(ctx, domain.HomeSlug)
	if err != nil || home.Owner != domain.DefaultOwner {
		t.Fatalf("home page not seeded: %v %+v", err, home)
	}
	if _, err := content.Get(ctx, domain.AboutSlug); err != nil {
		t.Fatalf("about page not seeded: %v", err)
	}
	if len(users.users) != 0 {
		t.Fatalf("no admin should be created without credentials")
	}
	if meta.fields == nil || *meta.fields.Brand != domain.DefaultBrand {
		t.Fatalf("site meta not seeded")
	}

	if err := b.Run(ctx, "root", "pw"); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if len(pages.pages) != 2 {
		t.Fatalf("pages seeded twice: %d", len(pages.pages))
	}
	if _, err := users.FindByUsername(ctx, "root"); err != nil {
		t.Fatalf("admin not created: %v", err)
	}
}
