package ports

import (
	"context"

	"github.com/fpress/content-system/internal/core/domain"
)

// UserInput carries the editable fields of an account.
type UserInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
	Bio         string
	Avatar      string
	// Nil flags keep the stored value on update. On create a nil IsActive
	// means active and a nil IsAdmin means not an admin.
	IsAdmin  *bool
	IsActive *bool
}

// UserService defines account management use cases.
type UserService interface {
	Create(ctx context.Context, session domain.Session, input UserInput) (*domain.User, error)
	Update(ctx context.Context, session domain.Session, id string, input UserInput) (*domain.User, error)
	Deactivate(ctx context.Context, session domain.Session, id string) error
	// HardDelete removes the account and reports how many pages were handed
	// over to the acting admin.
	HardDelete(ctx context.Context, session domain.Session, id string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	FirstUse(ctx context.Context, username, password, confirm string) (*domain.User, error)
	List(ctx context.Context, session domain.Session) ([]*domain.User, error)
}
