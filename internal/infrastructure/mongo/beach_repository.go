package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

// BeachRepository implements application.BeachRepository using MongoDB.
type BeachRepository struct {
	collection *mongo.Collection
}

// NewBeachRepository creates a Mongo-backed beach repository.
func NewBeachRepository(db *mongo.Database, collectionName string) *BeachRepository {
	return &BeachRepository{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the slug, status and geo indexes. It is idempotent.
func (r *BeachRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "municipality", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

// FindPublished returns every published beach matching the stored-column predicates of criteria.
func (r *BeachRepository) FindPublished(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Beach, error) {
	cursor, err := r.collection.Find(ctx, buildBeachFilter(criteria))
	if err != nil {
		return nil, err
	}
	return decodeBeaches(ctx, cursor)
}

// FindPublishedByIDs returns published beaches among ids. Unknown or malformed ids are skipped.
func (r *BeachRepository) FindPublishedByIDs(ctx context.Context, ids []string) ([]domain.Beach, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		"_id":    bson.M{"$in": objectIDs},
		"status": string(domain.StatePublished),
	})
	if err != nil {
		return nil, err
	}
	return decodeBeaches(ctx, cursor)
}

// FindByIDOrSlug returns a beach in any publish state.
func (r *BeachRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Beach, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	filter := bson.M{"slug": idOrSlug}
	if objectID, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		filter = bson.M{"$or": bson.A{bson.M{"_id": objectID}, bson.M{"slug": idOrSlug}}}
	}

	var doc BeachDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBeachNotFound
		}
		return nil, err
	}
	beach := mapBeachDocument(doc)
	return &beach, nil
}

// Upsert inserts or replaces a beach keyed by slug and writes back the stored ID.
func (r *BeachRepository) Upsert(ctx context.Context, beach *domain.Beach) error {
	doc, err := buildBeachDocument(*beach)
	if err != nil {
		return err
	}

	var existing BeachDocument
	err = r.collection.FindOne(ctx, bson.M{"slug": doc.Slug}).Decode(&existing)
	switch {
	case err == nil:
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("upsert beach %s: %w", doc.Slug, err)
	}
	beach.ID = doc.ID.Hex()
	return nil
}

// buildBeachFilter ANDs every active stored-column predicate. User text is always quoted
// before it reaches $regex.
func buildBeachFilter(criteria domain.FilterCriteria) bson.M {
	clauses := []bson.M{{"status": string(domain.StatePublished)}}

	if municipality := criteria.Municipality(); municipality != "" {
		clauses = append(clauses, bson.M{"municipality": municipality})
	}
	if tags := criteria.Tags(); len(tags) > 0 {
		clauses = append(clauses, bson.M{"tags": bson.M{"$all": tags}})
	}
	if amenities := criteria.Amenities(); len(amenities) > 0 {
		clauses = append(clauses, bson.M{"amenities": bson.M{"$all": amenities}})
	}
	if criteria.Lifeguard() {
		clauses = append(clauses, bson.M{"amenities": bson.M{"$in": domain.LifeguardAliases()}})
	}
	if query := criteria.Query(); query != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"municipality": regex},
			bson.M{"description": regex},
		}})
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func decodeBeaches(ctx context.Context, cursor *mongo.Cursor) ([]domain.Beach, error) {
	defer cursor.Close(ctx)

	beaches := make([]domain.Beach, 0)
	for cursor.Next(ctx) {
		var doc BeachDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		beaches = append(beaches, mapBeachDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return beaches, nil
}
