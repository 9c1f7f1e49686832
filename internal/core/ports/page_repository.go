package ports

import (
	"context"

	"github.com/fpress/content-system/internal/core/domain"
)

// PageRepository owns the active page store and its retention store.
type PageRepository interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Page, error)
	FindByID(ctx context.Context, id string) (*domain.Page, error)
	// Insert stores a new page and returns it with its ID set.
	Insert(ctx context.Context, page *domain.Page) (*domain.Page, error)
	Update(ctx context.Context, page *domain.Page) error
	// List returns all active pages in store order.
	List(ctx context.Context) ([]*domain.Page, error)
	// ReassignOwner moves every page owned by from to to and reports how many
	// pages changed.
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
	// MoveToRetention copies the page into the retention store, then removes
	// it from the active store.
	MoveToRetention(ctx context.Context, page *domain.DeletedPage) error
	ListDeleted(ctx context.Context) ([]*domain.DeletedPage, error)
}
