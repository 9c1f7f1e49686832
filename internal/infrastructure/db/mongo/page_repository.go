package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fpress/content-system/internal/core/domain"
)

// PageRepository stores active pages in "pages" and soft-deleted ones in
// "deleted".
type PageRepository struct {
	col     *mongo.Collection
	deleted *mongo.Collection
}

func NewPageRepository(db *mongo.Database) *PageRepository {
	return &PageRepository{
		col:     db.Collection(collectionPages),
		deleted: db.Collection(collectionDeleted),
	}
}

type mongoPage struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Slug         string             `bson:"slug"`
	Title        string             `bson:"title"`
	Content      string             `bson:"content"`
	Snippet      string             `bson:"snippet"`
	Owner        string             `bson:"owner"`
	IsPublished  bool               `bson:"is_published"`
	ShowTitle    bool               `bson:"show_title"`
	ShowNav      bool               `bson:"show_nav"`
	IsSidebar    bool               `bson:"is_sidebar"`
	IsMarkdown   bool               `bson:"is_markdown"`
	Template     string             `bson:"template,omitempty"`
	SidebarLeft  string             `bson:"sidebar_left,omitempty"`
	SidebarRight string             `bson:"sidebar_right,omitempty"`
	Footer       string             `bson:"footer,omitempty"`
	CreatedAt    string             `bson:"created_at,omitempty"`
	ModifiedAt   string             `bson:"modified_at,omitempty"`
}

type mongoDeletedPage struct {
	Page      mongoPage `bson:",inline"`
	DeletedAt time.Time `bson:"deleted_at"`
	DeletedBy string    `bson:"deleted_by"`
}

func toMongoPage(p *domain.Page) mongoPage {
	return mongoPage{
		Slug:         p.Slug,
		Title:        p.Title,
		Content:      p.Content,
		Snippet:      p.Snippet,
		Owner:        p.Owner,
		IsPublished:  p.IsPublished,
		ShowTitle:    p.ShowTitle,
		ShowNav:      p.ShowNav,
		IsSidebar:    p.IsSidebar,
		IsMarkdown:   p.IsMarkdown,
		Template:     p.Template,
		SidebarLeft:  p.SidebarLeft,
		SidebarRight: p.SidebarRight,
		Footer:       p.Footer,
		CreatedAt:    p.CreatedAt,
		ModifiedAt:   p.ModifiedAt,
	}
}

func (m mongoPage) toDomain() *domain.Page {
	return &domain.Page{
		ID:           m.ID.Hex(),
		Slug:         m.Slug,
		Title:        m.Title,
		Content:      m.Content,
		Snippet:      m.Snippet,
		Owner:        m.Owner,
		IsPublished:  m.IsPublished,
		ShowTitle:    m.ShowTitle,
		ShowNav:      m.ShowNav,
		IsSidebar:    m.IsSidebar,
		IsMarkdown:   m.IsMarkdown,
		Template:     m.Template,
		SidebarLeft:  m.SidebarLeft,
		SidebarRight: m.SidebarRight,
		Footer:       m.Footer,
		CreatedAt:    m.CreatedAt,
		ModifiedAt:   m.ModifiedAt,
	}
}

func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PageRepository) findOne(ctx context.Context, filter bson.M) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoPage
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find page: %w", err)
	}
	return m.toDomain(), nil
}

// Insert stores a new page. A taken slug yields ErrDuplicateSlug.
func (r *PageRepository) Insert(ctx context.Context, page *domain.Page) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoPage(page))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("insert page: %w", err)
	}

	created := *page
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PageRepository) Update(ctx context.Context, page *domain.Page) error {
	oid, err := objectID(page.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoPage(page))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("replace page: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns active pages in insertion order.
func (r *PageRepository) List(ctx context.Context) ([]*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	pages := make([]*domain.Page, 0, len(docs))
	for _, d := range docs {
		pages = append(pages, d.toDomain())
	}
	return pages, nil
}

func (r *PageRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, bson.M{"owner": from}, bson.M{"$set": bson.M{"owner": to}})
	if err != nil {
		return 0, fmt.Errorf("reassign pages: %w", err)
	}
	return res.ModifiedCount, nil
}

// MoveToRetention copies the page into "deleted", then removes it from
// "pages". The two writes are not transactional; a crash in between leaves
// the page in both collections, and the retention copy is upserted by _id so
// retrying the delete completes the move.
func (r *PageRepository) MoveToRetention(ctx context.Context, page *domain.DeletedPage) error {
	oid, err := objectID(page.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoDeletedPage{
		Page:      toMongoPage(&page.Page),
		DeletedAt: page.DeletedAt,
		DeletedBy: page.DeletedBy,
	}
	doc.Page.ID = oid

	if _, err := r.deleted.ReplaceOne(ctx, bson.M{"_id": oid}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("retain page: %w", err)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("remove page: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PageRepository) ListDeleted(ctx context.Context) ([]*domain.DeletedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.deleted.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list deleted pages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDeletedPage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode deleted pages: %w", err)
	}
	out := make([]*domain.DeletedPage, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.DeletedPage{
			Page:      *d.Page.toDomain(),
			DeletedAt: d.DeletedAt,
			DeletedBy: d.DeletedBy,
		})
	}
	return out, nil
}

// EnsureIndexes makes slugs unique and indexes owners for reassignment.
func (r *PageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
