package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/fpress/content-system/internal/core/domain"
)

type stubPageRepo struct {
	pages   map[string]*domain.Page
	deleted []*domain.DeletedPage
	order   []string
	nextID  int
}

func newStubPageRepo() *stubPageRepo {
	return &stubPageRepo{pages: make(map[string]*domain.Page)}
}

func clonePage(p *domain.Page) *domain.Page {
	c := *p
	return &c
}

func (r *stubPageRepo) FindBySlug(_ context.Context, slug string) (*domain.Page, error) {
	for _, id := range r.order {
		if p, ok := r.pages[id]; ok && p.Slug == slug {
			return clonePage(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubPageRepo) FindByID(_ context.Context, id string) (*domain.Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePage(p), nil
}

func (r *stubPageRepo) Insert(_ context.Context, page *domain.Page) (*domain.Page, error) {
	for _, p := range r.pages {
		if p.Slug == page.Slug {
			return nil, domain.ErrDuplicateSlug
		}
	}
	r.nextID++
	c := clonePage(page)
	c.ID = fmt.Sprintf("p%d", r.nextID)
	r.pages[c.ID] = c
	r.order = append(r.order, c.ID)
	return clonePage(c), nil
}

func (r *stubPageRepo) Update(_ context.Context, page *domain.Page) error {
	if _, ok := r.pages[page.ID]; !ok {
		return domain.ErrNotFound
	}
	r.pages[page.ID] = clonePage(page)
	return nil
}

func (r *stubPageRepo) List(_ context.Context) ([]*domain.Page, error) {
	out := make([]*domain.Page, 0, len(r.pages))
	for _, id := range r.order {
		if p, ok := r.pages[id]; ok {
			out = append(out, clonePage(p))
		}
	}
	return out, nil
}

func (r *stubPageRepo) ReassignOwner(_ context.Context, from, to string) (int64, error) {
	var n int64
	for _, p := range r.pages {
		if p.Owner == from {
			p.Owner = to
			n++
		}
	}
	return n, nil
}

func (r *stubPageRepo) MoveToRetention(_ context.Context, page *domain.DeletedPage) error {
	if _, ok := r.pages[page.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *page
	r.deleted = append(r.deleted, &c)
	delete(r.pages, page.ID)
	return nil
}

func (r *stubPageRepo) ListDeleted(_ context.Context) ([]*domain.DeletedPage, error) {
	return r.deleted, nil
}

type stubUserRepo struct {
	users   map[string]*domain.User
	creates int
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.creates++
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubFileRepo struct {
	mu     sync.Mutex
	files  map[string]*domain.File
	nextID int
}

func newStubFileRepo() *stubFileRepo {
	return &stubFileRepo{files: make(map[string]*domain.File)}
}

func (r *stubFileRepo) Insert(_ context.Context, file *domain.File) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := *file
	c.ID = fmt.Sprintf("f%d", r.nextID)
	r.files[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubFileRepo) FindByID(_ context.Context, id string) (*domain.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *f
	return &c, nil
}

func (r *stubFileRepo) UpdateTitle(_ context.Context, id, title string) error {
	f, ok := r.files[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Title = title
	return nil
}

func (r *stubFileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *stubFileRepo) List(_ context.Context) ([]*domain.File, error) {
	out := make([]*domain.File, 0, len(r.files))
	for _, f := range r.files {
		c := *f
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubFileRepo) ReassignOwner(_ context.Context, from, to string) (int64, error) {
	var n int64
	for _, f := range r.files {
		if f.Owner == from {
			f.Owner = to
			n++
		}
	}
	return n, nil
}

// memStorage is an in-memory FileStorage.
type memStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	removeErr error
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (m *memStorage) Exists(p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok, nil
}

func (m *memStorage) MkdirAll(string) error { return nil }

func (m *memStorage) Create(p string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		return 0, fmt.Errorf("%s: file exists", p)
	}
	m.files[p] = data
	return int64(len(data)), nil
}

func (m *memStorage) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.files, p)
	return nil
}

func (m *memStorage) Open(p string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// lockSerializer serializes every key through one mutex.
type lockSerializer struct {
	mu sync.Mutex
}

func (l *lockSerializer) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

type stubMetaRepo struct {
	fields *domain.SiteMetaFields
	saves  int
}

func (r *stubMetaRepo) Load(_ context.Context) (*domain.SiteMetaFields, error) {
	if r.fields == nil {
		return nil, domain.ErrNotFound
	}
	c := *r.fields
	return &c, nil
}

func (r *stubMetaRepo) Save(_ context.Context, f domain.SiteMetaFields) error {
	r.saves++
	if r.fields == nil {
		r.fields = &domain.SiteMetaFields{}
	}
	if f.Brand != nil {
		r.fields.Brand = f.Brand
	}
	if f.Theme != nil {
		r.fields.Theme = f.Theme
	}
	if f.Stylesheet != nil {
		r.fields.Stylesheet = f.Stylesheet
	}
	if f.NavBackground != nil {
		r.fields.NavBackground = f.NavBackground
	}
	if f.About != nil {
		r.fields.About = f.About
	}
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Duration)}
}

func (r *stubRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.revoked[id]
	return ok, nil
}

// plainHasher keeps tests fast; bcrypt is covered by password_test.go.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }
func (plainHasher) IsHashed(s string) bool {
	return len(s) > 7 && s[:7] == "hashed:"
}

var (
	anon  = domain.Anonymous()
	alice = domain.Session{Username: "alice", Authenticated: true}
	bob   = domain.Session{Username: "bob", Authenticated: true}
	admin = domain.Session{Username: "admin", Authenticated: true, Admin: true}
)
