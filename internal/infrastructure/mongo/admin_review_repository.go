package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// AdminReviewRepository handles the moderation queue. It also holds the beaches collection so
// the community aggregate can be rebuilt server-side.
type AdminReviewRepository struct {
	reviews *mongo.Collection
	beaches *mongo.Collection
}

// NewAdminReviewRepository binds the review and beach collections.
func NewAdminReviewRepository(db *mongo.Database, reviewCollection, beachCollection string) *AdminReviewRepository {
	return &AdminReviewRepository{
		reviews: db.Collection(reviewCollection),
		beaches: db.Collection(beachCollection),
	}
}

// List returns reviews oldest first so the moderation queue is worked in arrival order.
func (r *AdminReviewRepository) List(ctx context.Context, filter adminapp.ReviewFilter, paging adminapp.Paging) ([]domain.Review, error) {
	mongoFilter := bson.M{}
	if status, ok := filter.Status.Status(); ok {
		mongoFilter["status"] = string(status)
	}
	if beachID := strings.TrimSpace(filter.BeachID); beachID != "" {
		objectID, err := primitive.ObjectIDFromHex(beachID)
		if err != nil {
			return []domain.Review{}, nil
		}
		mongoFilter["beachId"] = objectID
	}

	limit := clampAdminLimit(paging.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(adminapp.Paging{Page: paging.Page, Limit: limit}.Offset()))

	cursor, err := r.reviews.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	return decodeReviews(ctx, cursor)
}

// FindByID returns a single review.
func (r *AdminReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}
	var doc ReviewDocument
	if err := r.reviews.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

// UpdateStatus records a moderation decision.
func (r *AdminReviewRepository) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrReviewNotFound
	}
	res, err := r.reviews.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"status": string(status), "updatedAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// ListByBeach returns every review of a beach regardless of status.
func (r *AdminReviewRepository) ListByBeach(ctx context.Context, beachID string) ([]domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(beachID))
	if err != nil {
		return []domain.Review{}, nil
	}
	cursor, err := r.reviews.Find(ctx, bson.M{"beachId": objectID})
	if err != nil {
		return nil, err
	}
	return decodeReviews(ctx, cursor)
}

// RecalculateCommunity rebuilds a beach's community facet from its approved reviews with a
// single aggregation, for bulk backfills where loading every review is wasteful.
func (r *AdminReviewRepository) RecalculateCommunity(ctx context.Context, beachID string) (domain.RatingFacet, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(beachID))
	if err != nil {
		return domain.RatingFacet{}, domain.ErrBeachNotFound
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"beachId": objectID, "status": string(domain.ReviewApproved)}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.RatingFacet{}, err
	}
	defer cursor.Close(ctx)

	var facet domain.RatingFacet
	if cursor.Next(ctx) {
		var agg struct {
			Count int      `bson:"count"`
			Avg   *float64 `bson:"avg"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return domain.RatingFacet{}, err
		}
		facet = domain.RatingFacet{Value: agg.Avg, Count: agg.Count}
	}
	if err := cursor.Err(); err != nil {
		return domain.RatingFacet{}, err
	}

	update := bson.M{
		"community": RatingDocument{Value: facet.Value, Count: facet.Count},
		"updatedAt": time.Now().UTC(),
	}
	if _, err := r.beaches.UpdateByID(ctx, objectID, bson.M{"$set": update}); err != nil {
		return domain.RatingFacet{}, err
	}
	return facet, nil
}
