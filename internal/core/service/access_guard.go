package service

import "github.com/fpress/content-system/internal/core/domain"

// AccessGuard decides what a session may do. Pages and files share one rule:
// the owner or an admin may change them, nobody else.
type AccessGuard struct{}

func NewAccessGuard() AccessGuard {
	return AccessGuard{}
}

// CanRead reports whether the session may see page. Published pages are
// public; drafts are visible to their owner and to admins.
func (g AccessGuard) CanRead(s domain.Session, page *domain.Page) bool {
	if page == nil {
		return false
	}
	if page.IsPublished {
		return true
	}
	return g.CanAccess(s, page.Owner, domain.OpRead)
}

// CanAccess reports whether the session may perform op on a record owned by owner.
func (g AccessGuard) CanAccess(s domain.Session, owner string, op domain.Operation) bool {
	if !s.Authenticated {
		return false
	}
	if s.Admin {
		return true
	}
	return s.Username != "" && owner == s.Username
}

// CanReachAdminArea reports whether the session may use admin-only operations.
func (g AccessGuard) CanReachAdminArea(s domain.Session) bool {
	return s.Authenticated && s.Admin
}

// CanManageUser reports whether the session may deactivate or delete the
// account named target. Admins are locked out of their own account.
func (g AccessGuard) CanManageUser(s domain.Session, target string) bool {
	return g.CanReachAdminArea(s) && target != s.Username
}

// Authorize is CanAccess as an error: ErrUnauthenticated for anonymous
// sessions, ErrForbidden for everyone else who fails the check.
func (g AccessGuard) Authorize(s domain.Session, owner string, op domain.Operation) error {
	if !s.Authenticated {
		return domain.ErrUnauthenticated
	}
	if !g.CanAccess(s, owner, op) {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeAdmin is CanReachAdminArea as an error.
func (g AccessGuard) AuthorizeAdmin(s domain.Session) error {
	if !s.Authenticated {
		return domain.ErrUnauthenticated
	}
	if !s.Admin {
		return domain.ErrForbidden
	}
	return nil
}
