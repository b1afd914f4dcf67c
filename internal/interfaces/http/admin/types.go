package admin

import (
	"time"

	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
)

type facetResponse struct {
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

type adminBeachResponse struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	Municipality string        `json:"municipality"`
	Lat          float64       `json:"lat"`
	Lng          float64       `json:"lng"`
	Status       string        `json:"status"`
	Tags         []string      `json:"tags"`
	Amenities    []string      `json:"amenities"`
	ThirdParty   facetResponse `json:"third_party_rating"`
	Community    facetResponse `json:"community_rating"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type adminReviewResponse struct {
	ID         string    `json:"id"`
	BeachID    string    `json:"beach_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type statusChangeResponse struct {
	BeachID   string    `json:"beach_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Changed   bool      `json:"changed"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

type moderationResponse struct {
	Review    adminReviewResponse `json:"review"`
	Community facetResponse       `json:"community_rating"`
	DecidedBy string              `json:"decided_by"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func buildFacet(f publicdomain.RatingFacet) facetResponse {
	if !f.HasValue() {
		return facetResponse{Count: f.Count}
	}
	v := *f.Value
	return facetResponse{Value: &v, Count: f.Count}
}

func buildBeach(b publicdomain.Beach, loc *time.Location) adminBeachResponse {
	return adminBeachResponse{
		ID:           b.ID,
		Slug:         b.Slug,
		Name:         b.Name,
		Municipality: b.Municipality,
		Lat:          b.Coordinates.Lat,
		Lng:          b.Coordinates.Lng,
		Status:       string(b.Status),
		Tags:         orEmpty(b.Tags),
		Amenities:    orEmpty(b.Amenities),
		ThirdParty:   buildFacet(b.ThirdParty),
		Community:    buildFacet(b.Community),
		CreatedAt:    b.CreatedAt.In(loc),
		UpdatedAt:    b.UpdatedAt.In(loc),
	}
}

func buildReview(r publicdomain.Review, loc *time.Location) adminReviewResponse {
	return adminReviewResponse{
		ID:         r.ID,
		BeachID:    r.BeachID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.In(loc),
		UpdatedAt:  r.UpdatedAt.In(loc),
	}
}

func buildStatusChange(c *admindomain.StatusChange, loc *time.Location) statusChangeResponse {
	return statusChangeResponse{
		BeachID:   c.BeachID,
		From:      string(c.From),
		To:        string(c.To),
		Changed:   !c.Noop(),
		ChangedBy: c.ChangedBy.String(),
		ChangedAt: c.ChangedAt.In(loc),
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
