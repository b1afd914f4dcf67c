package mongo

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

// GeoPoint is a GeoJSON point. Coordinates are [lng, lat] as required by 2dsphere indexes.
type GeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// RatingDocument is one embedded rating facet.
type RatingDocument struct {
	Value *float64 `bson:"value,omitempty"`
	Count int      `bson:"count"`
}

// BeachDocument is the Mongo schema of a beach.
type BeachDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Slug         string             `bson:"slug"`
	Name         string             `bson:"name"`
	Municipality string             `bson:"municipality,omitempty"`
	Location     GeoPoint           `bson:"location"`
	CoverImage   string             `bson:"coverImage,omitempty"`
	Description  string             `bson:"description,omitempty"`
	Tags         []string           `bson:"tags,omitempty"`
	Amenities    []string           `bson:"amenities,omitempty"`
	Gallery      []string           `bson:"gallery,omitempty"`
	Features     []string           `bson:"features,omitempty"`
	ThirdParty   RatingDocument     `bson:"thirdParty"`
	Community    RatingDocument     `bson:"community"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ReviewDocument is the Mongo schema of a community review.
type ReviewDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	BeachID    primitive.ObjectID `bson:"beachId"`
	AuthorID   string             `bson:"authorId"`
	AuthorName string             `bson:"authorName,omitempty"`
	Rating     int                `bson:"rating"`
	Comment    string             `bson:"comment,omitempty"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func newGeoPoint(c domain.Coordinates) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{c.Lng, c.Lat}}
}

func (p GeoPoint) coordinates() domain.Coordinates {
	if len(p.Coordinates) != 2 {
		return domain.Coordinates{}
	}
	return domain.Coordinates{Lat: p.Coordinates[1], Lng: p.Coordinates[0]}
}

func mapBeachDocument(doc BeachDocument) domain.Beach {
	return domain.Beach{
		ID:           doc.ID.Hex(),
		Slug:         doc.Slug,
		Name:         doc.Name,
		Municipality: doc.Municipality,
		Coordinates:  doc.Location.coordinates(),
		CoverImage:   doc.CoverImage,
		Description:  doc.Description,
		Tags:         append([]string{}, doc.Tags...),
		Amenities:    append([]string{}, doc.Amenities...),
		Gallery:      append([]string{}, doc.Gallery...),
		Features:     append([]string{}, doc.Features...),
		ThirdParty:   domain.RatingFacet{Value: doc.ThirdParty.Value, Count: doc.ThirdParty.Count},
		Community:    domain.RatingFacet{Value: doc.Community.Value, Count: doc.Community.Count},
		Status:       domain.PublishState(doc.Status),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// buildBeachDocument validates b and converts it. A blank or non-hex ID gets a new ObjectID.
func buildBeachDocument(b domain.Beach) (BeachDocument, error) {
	if err := b.Validate(); err != nil {
		return BeachDocument{}, err
	}
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(b.ID))
	if err != nil {
		id = primitive.NewObjectID()
	}
	amenities := make([]string, 0, len(b.Amenities))
	for _, a := range b.Amenities {
		amenities = append(amenities, strings.ToLower(strings.TrimSpace(a)))
	}
	return BeachDocument{
		ID:           id,
		Slug:         b.Slug,
		Name:         b.Name,
		Municipality: b.Municipality,
		Location:     newGeoPoint(b.Coordinates),
		CoverImage:   b.CoverImage,
		Description:  b.Description,
		Tags:         b.Tags,
		Amenities:    amenities,
		Gallery:      b.Gallery,
		Features:     b.Features,
		ThirdParty:   RatingDocument{Value: b.ThirdParty.Value, Count: b.ThirdParty.Count},
		Community:    RatingDocument{Value: b.Community.Value, Count: b.Community.Count},
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}, nil
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:         doc.ID.Hex(),
		BeachID:    doc.BeachID.Hex(),
		AuthorID:   doc.AuthorID,
		AuthorName: doc.AuthorName,
		Rating:     doc.Rating,
		Comment:    doc.Comment,
		Status:     domain.ReviewStatus(doc.Status),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func buildReviewDocument(r domain.Review) (ReviewDocument, error) {
	beachID, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.BeachID))
	if err != nil {
		return ReviewDocument{}, fmt.Errorf("review beach id: %w", domain.ErrBeachNotFound)
	}
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.ID))
	if err != nil {
		id = primitive.NewObjectID()
	}
	return ReviewDocument{
		ID:         id,
		BeachID:    beachID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}
