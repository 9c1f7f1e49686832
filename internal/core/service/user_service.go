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
)

// UserService manages accounts. Usernames are checked for uniqueness before
// insert; the store's unique index catches concurrent creates that slip past.
type UserService struct {
	repo   ports.UserRepository
	pages  ports.PageRepository
	files  ports.FileRepository
	hasher ports.PasswordHasher
	guard  AccessGuard
	now    func() time.Time
	logger zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	pages ports.PageRepository,
	files ports.FileRepository,
	hasher ports.PasswordHasher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		repo:   repo,
		pages:  pages,
		files:  files,
		hasher: hasher,
		guard:  NewAccessGuard(),
		now:    time.Now,
		logger: logger,
	}
}

// Create adds an account on behalf of an admin.
func (s *UserService) Create(ctx context.Context, session domain.Session, input ports.UserInput) (*domain.User, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	return s.create(ctx, input)
}

func (s *UserService) create(ctx context.Context, input ports.UserInput) (*domain.User, error) {
	var problems []string
	if input.Username == "" {
		problems = append(problems, "username is required")
	}
	if input.Password == "" {
		problems = append(problems, "password is required")
	} else if err := checkPasswordLength(input.Password); err != nil {
		problems = append(problems, err.Error())
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByUsername(ctx, input.Username)
	if err == nil {
		return nil, domain.ErrDuplicateUsername
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		Bio:          input.Bio,
		Avatar:       input.Avatar,
		IsAdmin:      boolOr(input.IsAdmin, false),
		IsActive:     boolOr(input.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", created.Username).Bool("is_admin", created.IsAdmin).Msg("user created")
	return created, nil
}

// Update edits an account. The stored hash is replaced only when the incoming
// password is a new plaintext, so re-submitting the hash never double-hashes.
// An admin cannot drop its own admin or active flag.
func (s *UserService) Update(ctx context.Context, session domain.Session, id string, input ports.UserInput) (*domain.User, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	if input.Username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isAdmin := boolOr(input.IsAdmin, user.IsAdmin)
	isActive := boolOr(input.IsActive, user.IsActive)
	if !s.guard.CanManageUser(session, user.Username) && (!isAdmin || !isActive) {
		return nil, domain.ErrSelfDeleteForbidden
	}

	previous := user.Username
	if input.Username != previous {
		if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
			return nil, domain.ErrDuplicateUsername
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
	}

	if input.Password != "" && input.Password != user.PasswordHash && !s.hasher.IsHashed(input.Password) {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.Username = input.Username
	user.Email = input.Email
	user.DisplayName = input.DisplayName
	user.Bio = input.Bio
	user.Avatar = input.Avatar
	user.IsAdmin = isAdmin
	user.IsActive = isActive
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if previous != user.Username {
		if _, err := s.reassign(ctx, previous, user.Username); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Deactivate keeps the account but blocks its logins.
func (s *UserService) Deactivate(ctx context.Context, session domain.Session, id string) error {
	user, err := s.managedUser(ctx, session, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.logger.Info().Str("username", user.Username).Str("by", session.Username).Msg("user deactivated")
	return nil
}

// HardDelete hands the account's pages and files to the acting admin, then
// removes the account. It returns the number of pages reassigned.
func (s *UserService) HardDelete(ctx context.Context, session domain.Session, id string) (int64, error) {
	user, err := s.managedUser(ctx, session, id)
	if err != nil {
		return 0, err
	}

	pages, err := s.reassign(ctx, user.Username, session.Username)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().
		Str("username", user.Username).
		Str("by", session.Username).
		Int64("pages_reassigned", pages).
		Msg("user deleted")
	return pages, nil
}

// managedUser loads the target of a deactivate or delete and applies the
// admin and self-lockout rules.
func (s *UserService) managedUser(ctx context.Context, session domain.Session, id string) (*domain.User, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanManageUser(session, user.Username) {
		return nil, domain.ErrSelfDeleteForbidden
	}
	return user, nil
}

func (s *UserService) reassign(ctx context.Context, from, to string) (int64, error) {
	pages, err := s.pages.ReassignOwner(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("reassign pages: %w", err)
	}
	files, err := s.files.ReassignOwner(ctx, from, to)
	if err != nil {
		return pages, fmt.Errorf("reassign files: %w", err)
	}
	s.logger.Debug().
		Str("from", from).
		Str("to", to).
		Int64("pages", pages).
		Int64("files", files).
		Msg("ownership reassigned")
	return pages, nil
}

// Authenticate checks a login. Unknown users, wrong passwords and inactive
// accounts all fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// FirstUse creates the first admin of an empty site.
func (s *UserService) FirstUse(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil, domain.ErrForbidden
	}

	var problems []string
	if strings.TrimSpace(username) == "" {
		problems = append(problems, "username must not be empty")
	}
	if password == "" {
		problems = append(problems, "password must not be empty")
	} else if err := checkPasswordLength(password); err != nil {
		problems = append(problems, err.Error())
	}
	if password != confirm {
		problems = append(problems, "password and confirm must match")
	}
	if err := domain.NewValidationError(problems...); err != nil {
		return nil, err
	}

	return s.create(ctx, ports.UserInput{
		Username: username,
		Password: password,
		IsAdmin:  boolPtr(true),
		IsActive: boolPtr(true),
	})
}

// EnsureAdmin creates an active admin account unless username already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.create(ctx, ports.UserInput{
		Username: username,
		Password: password,
		IsAdmin:  boolPtr(true),
		IsActive: boolPtr(true),
	})
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, session domain.Session) ([]*domain.User, error) {
	if err := s.guard.AuthorizeAdmin(session); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func boolPtr(b bool) *bool { return &b }
