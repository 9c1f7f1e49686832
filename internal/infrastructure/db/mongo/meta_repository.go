package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fpress/content-system/internal/core/domain"
)

// SiteMetaRepository keeps the single site configuration document.
type SiteMetaRepository struct {
	col *mongo.Collection
}

func NewSiteMetaRepository(db *mongo.Database) *SiteMetaRepository {
	return &SiteMetaRepository{col: db.Collection(collectionMeta)}
}

// mongoMeta uses pointers so absent fields stay absent in both directions.
type mongoMeta struct {
	Brand         *string `bson:"brand,omitempty"`
	Theme         *string `bson:"theme,omitempty"`
	Stylesheet    *string `bson:"stylesheet,omitempty"`
	NavBackground *bool   `bson:"navbackground,omitempty"`
	About         *string `bson:"about,omitempty"`
}

func (r *SiteMetaRepository) Load(ctx context.Context) (*domain.SiteMetaFields, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoMeta
	if err := r.col.FindOne(ctx, bson.M{}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find site meta: %w", err)
	}
	return &domain.SiteMetaFields{
		Brand:         m.Brand,
		Theme:         m.Theme,
		Stylesheet:    m.Stylesheet,
		NavBackground: m.NavBackground,
		About:         m.About,
	}, nil
}

// Save sets the non-nil fields on the single document, creating it if needed.
func (r *SiteMetaRepository) Save(ctx context.Context, fields domain.SiteMetaFields) error {
	set := mongoMeta{
		Brand:         fields.Brand,
		Theme:         fields.Theme,
		Stylesheet:    fields.Stylesheet,
		NavBackground: fields.NavBackground,
		About:         fields.About,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save site meta: %w", err)
	}
	return nil
}
