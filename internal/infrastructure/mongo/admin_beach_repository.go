package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

const (
	defaultAdminLimit = 50
	maxAdminLimit     = 200
)

// AdminBeachRepository is the moderation view of the beaches collection.
type AdminBeachRepository struct {
	collection *mongo.Collection
}

// NewAdminBeachRepository binds the beaches collection.
func NewAdminBeachRepository(db *mongo.Database, collectionName string) *AdminBeachRepository {
	return &AdminBeachRepository{collection: db.Collection(collectionName)}
}

// List returns beaches in any publish state, newest update first.
func (r *AdminBeachRepository) List(ctx context.Context, filter adminapp.BeachFilter, paging adminapp.Paging) ([]domain.Beach, error) {
	mongoFilter := bson.M{}
	if state, ok := filter.Status.State(); ok {
		mongoFilter["status"] = string(state)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"slug": regex},
			bson.M{"municipality": regex},
		}
	}

	limit := clampAdminLimit(paging.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(adminapp.Paging{Page: paging.Page, Limit: limit}.Offset()))

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	return decodeBeaches(ctx, cursor)
}

// FindByID returns a beach by hex ObjectID.
func (r *AdminBeachRepository) FindByID(ctx context.Context, id string) (*domain.Beach, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrBeachNotFound
	}
	var doc BeachDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBeachNotFound
		}
		return nil, err
	}
	beach := mapBeachDocument(doc)
	return &beach, nil
}

// SetStatus publishes or unpublishes a beach.
func (r *AdminBeachRepository) SetStatus(ctx context.Context, id string, status domain.PublishState, at time.Time) error {
	return r.set(ctx, id, bson.M{"status": string(status), "updatedAt": at})
}

// SetCommunityRating overwrites the community facet.
func (r *AdminBeachRepository) SetCommunityRating(ctx context.Context, id string, facet domain.RatingFacet, at time.Time) error {
	return r.set(ctx, id, bson.M{
		"community": RatingDocument{Value: facet.Value, Count: facet.Count},
		"updatedAt": at,
	})
}

func (r *AdminBeachRepository) set(ctx context.Context, id string, fields bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrBeachNotFound
	}
	res, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBeachNotFound
	}
	return nil
}

func clampAdminLimit(limit int) int {
	if limit <= 0 {
		return defaultAdminLimit
	}
	return min(limit, maxAdminLimit)
}
