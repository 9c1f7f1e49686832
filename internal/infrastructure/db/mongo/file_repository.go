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

type FileRepository struct {
	col *mongo.Collection
}

func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{col: db.Collection(collectionFiles)}
}

// mongoFile omits the URL; it is derived from the path on read.
type mongoFile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Filepath  string             `bson:"filepath"`
	Owner     string             `bson:"owner"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoFile) toDomain() *domain.File {
	return &domain.File{
		ID:        m.ID.Hex(),
		Title:     m.Title,
		Filepath:  m.Filepath,
		Owner:     m.Owner,
		URL:       domain.FileURL(m.Filepath),
		CreatedAt: m.CreatedAt,
	}
}

func (r *FileRepository) Insert(ctx context.Context, file *domain.File) (*domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoFile{
		Title:     file.Title,
		Filepath:  file.Filepath,
		Owner:     file.Owner,
		CreatedAt: file.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}

	created := *file
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	created.URL = domain.FileURL(created.Filepath)
	return &created, nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*domain.File, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoFile
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return m.toDomain(), nil
}

func (r *FileRepository) UpdateTitle(ctx context.Context, id, title string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"title": title}})
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns file records newest first.
func (r *FileRepository) List(ctx context.Context) ([]*domain.File, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoFile
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	files := make([]*domain.File, 0, len(docs))
	for _, d := range docs {
		files = append(files, d.toDomain())
	}
	return files, nil
}

func (r *FileRepository) ReassignOwner(ctx context.Context, from, to string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, bson.M{"owner": from}, bson.M{"$set": bson.M{"owner": to}})
	if err != nil {
		return 0, fmt.Errorf("reassign files: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *FileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "filepath", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	return err
}
