package ports

import (
	"context"

	"github.com/fpress/content-system/internal/core/domain"
)

type SiteMetaService interface {
	Load(ctx context.Context) (domain.SiteMeta, error)
	Save(ctx context.Context, session domain.Session, fields domain.SiteMetaFields) (domain.SiteMeta, error)
}
