package ports

import (
	"context"

	"github.com/fpress/content-system/internal/core/domain"
)

// SiteMetaRepository stores the singleton site configuration record.
type SiteMetaRepository interface {
	// Load returns the stored fields or domain.ErrNotFound when no record exists.
	Load(ctx context.Context) (*domain.SiteMetaFields, error)
	// Save writes only the non-nil fields, creating the record if needed.
	Save(ctx context.Context, fields domain.SiteMetaFields) error
}
