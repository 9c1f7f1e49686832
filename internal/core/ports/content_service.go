package ports

import (
	"context"

	"github.com/fpress/content-system/internal/core/domain"
)

// PageInput carries the editable fields of a page. An empty ID creates a page.
type PageInput struct {
	ID           string
	Slug         string
	Title        string
	Content      string
	IsPublished  bool
	ShowTitle    bool
	ShowNav      bool
	IsSidebar    bool
	IsMarkdown   bool
	Template     string
	SidebarLeft  string
	SidebarRight string
	Footer       string
}

// ContentService defines the use cases around pages.
type ContentService interface {
	Get(ctx context.Context, slug string) (*domain.Page, error)
	// View resolves a slug for a visitor and hides pages they may not read.
	View(ctx context.Context, session domain.Session, slug string) (*domain.Page, error)
	GetForEdit(ctx context.Context, session domain.Session, id string) (*domain.Page, error)
	Save(ctx context.Context, session domain.Session, input PageInput) (*domain.Page, error)
	SoftDelete(ctx context.Context, session domain.Session, id string) error
	Search(ctx context.Context, session domain.Session, term string) ([]*domain.Page, error)
	List(ctx context.Context, session domain.Session) ([]*domain.Page, error)
	ListDeleted(ctx context.Context, session domain.Session) ([]*domain.DeletedPage, error)
}
