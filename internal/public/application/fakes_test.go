package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

type fakeBeachRepo struct {
	mu      sync.Mutex
	beaches []domain.Beach
	queries []domain.FilterCriteria
	findErr error
}

func (f *fakeBeachRepo) FindPublished(_ context.Context, criteria domain.FilterCriteria) ([]domain.Beach, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, criteria)
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []domain.Beach
	for _, b := range f.beaches {
		if criteria.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBeachRepo) FindPublishedByIDs(_ context.Context, ids []string) ([]domain.Beach, error) {
	var out []domain.Beach
	for _, id := range ids {
		for _, b := range f.beaches {
			if b.ID == id && b.Published() {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (f *fakeBeachRepo) FindByIDOrSlug(_ context.Context, idOrSlug string) (*domain.Beach, error) {
	for _, b := range f.beaches {
		if b.ID == idOrSlug || b.Slug == idOrSlug {
			found := b
			return &found, nil
		}
	}
	return nil, domain.ErrBeachNotFound
}

func (f *fakeBeachRepo) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeReviewRepo struct {
	created []domain.Review
}

func (f *fakeReviewRepo) Create(_ context.Context, r *domain.Review) error {
	f.created = append(f.created, *r)
	return nil
}

func (f *fakeReviewRepo) ListApproved(_ context.Context, beachID string, limit int) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.created {
		if r.BeachID == beachID && r.Status == domain.ReviewApproved && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLimiter struct {
	counts map[string]int
}

func (f *fakeLimiter) Allow(_ context.Context, identifier, action string, limit int, _ time.Duration) (bool, error) {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	key := action + "|" + identifier
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

type fakeMailer struct {
	sent []Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeWeather struct {
	snapshot domain.WeatherSnapshot
	err      error
}

func (f fakeWeather) Snapshot(context.Context, domain.Coordinates) (domain.WeatherSnapshot, error) {
	return f.snapshot, f.err
}

func rating(v float64, count int) domain.RatingFacet {
	return domain.RatingFacet{Value: &v, Count: count}
}

func beach(id, name, municipality string, lat, lng float64, tags ...string) domain.Beach {
	return domain.Beach{
		ID:           id,
		Slug:         fmt.Sprintf("%s-slug", id),
		Name:         name,
		Municipality: municipality,
		Coordinates:  domain.Coordinates{Lat: lat, Lng: lng},
		Tags:         tags,
		Status:       domain.StatePublished,
	}
}

// sampleBeaches is a small island-wide catalogue.
func sampleBeaches() []domain.Beach {
	condado := beach("condado", "Condado", "San Juan", 18.4590, -66.0733, "swimming", "nightlife")
	condado.Amenities = []string{"lifeguard", "restrooms"}
	condado.ThirdParty = rating(4.1, 800)

	ocean := beach("ocean-park", "Ocean Park", "San Juan", 18.4545, -66.0530, "surfing", "swimming")
	ocean.ThirdParty = rating(4.5, 300)

	isla := beach("isla-verde", "Isla Verde", "Carolina", 18.4441, -66.0093, "swimming", "family-friendly")
	isla.Amenities = []string{"lifeguard", "parking"}
	isla.Community = rating(4.8, 12)
	isla.ThirdParty = rating(4.0, 1500)

	domes := beach("domes", "Domes", "Rincón", 18.3651, -67.2696, "surfing", "sunset")
	domes.Community = rating(4.9, 40)

	wilderness := beach("wilderness", "Wilderness", "Aguadilla", 18.4870, -67.1620, "surfing", "secluded")
	wilderness.ThirdParty = rating(4.6, 90)

	jobos := beach("jobos", "Jobos", "Isabela", 18.5130, -67.0770, "surfing", "swimming")
	jobos.Community = rating(4.2, 10)
	jobos.ThirdParty = rating(4.4, 2100)

	flamenco := beach("flamenco", "Flamenco", "Culebra", 18.3295, -65.3180, "snorkeling", "swimming", "family-friendly")
	flamenco.Amenities = []string{"lifeguard"}

	draft := beach("draft-cove", "Aaa Draft Cove", "Rincón", 18.3500, -67.2600, "surfing")
	draft.Status = domain.StateDraft

	return []domain.Beach{condado, ocean, isla, domes, wilderness, jobos, flamenco, draft}
}
