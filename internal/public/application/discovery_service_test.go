package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

func newTestDiscovery(repo BeachRepository, reviews ReviewRepository) DiscoveryService {
	return NewDiscoveryService(DiscoveryConfig{
		Beaches:     repo,
		Reviews:     reviews,
		Collections: MustCollectionRegistry(DefaultCollections()...),
		Estimator:   domain.NewCrowdEstimator(time.UTC),
		Limits:      DefaultLimits,
		Clock:       func() time.Time { return time.Date(2026, 7, 4, 14, 30, 0, 0, time.UTC) },
	})
}

func itemIDs(items []BeachResult) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Beach.ID)
	}
	return out
}

func TestDiscoverFilterWithoutLocation(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)
	criteria := domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"surfing"}})

	res, err := svc.Discover(context.Background(), DiscoveryRequest{Criteria: criteria})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	want := []string{"domes", "jobos", "ocean-park", "wilderness"}
	if got := itemIDs(res.Items); !slices.Equal(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if res.Total != 4 || res.View != ViewList || res.Page != 1 {
		t.Fatalf("meta = total %d view %s page %d", res.Total, res.View, res.Page)
	}
	for _, item := range res.Items {
		if item.DistanceMeters != nil {
			t.Fatalf("%s carries a distance without an origin", item.Beach.ID)
		}
		if item.Crowd != nil {
			t.Fatalf("%s carries a crowd estimate that was not requested", item.Beach.ID)
		}
	}
}

func TestDiscoverNeverReturnsNonMatches(t *testing.T) {
	t.Parallel()

	inputs := []domain.FilterInput{
		{},
		{Tags: []string{"swimming"}},
		{Tags: []string{"swimming", "family-friendly"}, Lifeguard: true},
		{Municipality: "San Juan"},
		{Query: "verde"},
		{Amenities: []string{"parking"}},
		{Query: "nowhere"},
	}
	beaches := sampleBeaches()
	svc := newTestDiscovery(&fakeBeachRepo{beaches: beaches}, nil)

	for i, in := range inputs {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			t.Parallel()
			criteria := domain.NewFilterCriteria(in)
			res, err := svc.Discover(context.Background(), DiscoveryRequest{Criteria: criteria, View: ViewMap})
			if err != nil {
				t.Fatalf("discover: %v", err)
			}
			want := 0
			for _, b := range beaches {
				if criteria.Matches(b) {
					want++
				}
			}
			if res.Total != want {
				t.Fatalf("total = %d, want %d", res.Total, want)
			}
			for _, item := range res.Items {
				if !criteria.Matches(item.Beach) {
					t.Fatalf("%s does not satisfy the criteria", item.Beach.ID)
				}
				if item.Beach.Status != domain.StatePublished {
					t.Fatalf("%s is not published", item.Beach.ID)
				}
			}
		})
	}
}

func TestDiscoverDistanceSortAndFilter(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)
	rincon := &domain.Coordinates{Lat: 18.3651, Lng: -67.2696}

	res, err := svc.Discover(context.Background(), DiscoveryRequest{
		Criteria: domain.NewFilterCriteria(domain.FilterInput{Sort: "distance"}),
		Origin:   rincon,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Items) != 7 || res.Items[0].Beach.ID != "domes" {
		t.Fatalf("ids = %v", itemIDs(res.Items))
	}
	prev := -1.0
	for _, item := range res.Items {
		if item.DistanceMeters == nil {
			t.Fatalf("%s has no distance", item.Beach.ID)
		}
		if *item.DistanceMeters < prev {
			t.Fatalf("distances not ascending at %s", item.Beach.ID)
		}
		prev = *item.DistanceMeters
	}

	res, err = svc.Discover(context.Background(), DiscoveryRequest{
		Criteria: domain.NewFilterCriteria(domain.FilterInput{MaxDistanceKm: 30}),
		Origin:   rincon,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got := itemIDs(res.Items); !slices.Equal(got, []string{"domes", "jobos", "wilderness"}) {
		t.Fatalf("within 30 km = %v", got)
	}
}

func TestDiscoverDistanceSortWithoutOriginUsesName(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)
	res, err := svc.Discover(context.Background(), DiscoveryRequest{
		Criteria: domain.NewFilterCriteria(domain.FilterInput{Sort: "distance", MaxDistanceKm: 1}),
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{"condado", "domes", "flamenco", "isla-verde", "jobos", "ocean-park", "wilderness"}
	if got := itemIDs(res.Items); !slices.Equal(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if res.Criteria.Has(domain.ConstraintDistance) {
		t.Fatalf("effective max distance = %v, want cleared without an origin", res.Criteria.MaxDistanceKm())
	}
}

func TestDiscoverHugePageReturnsEmptyWindow(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)

	for _, raw := range []string{"9223372036854775807", "4611686018427387904", "100001"} {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			criteria := ComposeFilter(url.Values{"page": {raw}, "limit": {"20"}})
			res, err := svc.Discover(context.Background(), DiscoveryRequest{Criteria: criteria})
			if err != nil {
				t.Fatalf("discover: %v", err)
			}
			if len(res.Items) != 0 || res.Total != 7 {
				t.Fatalf("items = %d total = %d, want an empty page over 7", len(res.Items), res.Total)
			}
			if res.Page != domain.MaxPage {
				t.Fatalf("page = %d, want %d", res.Page, domain.MaxPage)
			}
		})
	}
}

func TestDiscoverSortOrders(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)
	tests := []struct {
		sort string
		want []string
	}{
		{"rating", []string{"domes", "isla-verde", "wilderness", "ocean-park", "jobos", "condado", "flamenco"}},
		{"reviews", []string{"jobos", "condado", "ocean-park", "wilderness", "domes", "isla-verde", "flamenco"}},
		{"name", []string{"condado", "domes", "flamenco", "isla-verde", "jobos", "ocean-park", "wilderness"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			t.Parallel()
			res, err := svc.Discover(context.Background(), DiscoveryRequest{
				Criteria: domain.NewFilterCriteria(domain.FilterInput{Sort: tt.sort}),
			})
			if err != nil {
				t.Fatalf("discover: %v", err)
			}
			if got := itemIDs(res.Items); !slices.Equal(got, tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverCaps(t *testing.T) {
	t.Parallel()

	many := make([]domain.Beach, 0, 600)
	for i := range 600 {
		many = append(many, beach(fmt.Sprintf("b%03d", i), fmt.Sprintf("Beach %03d", i), "Dorado", 18.47, -66.27, "swimming"))
	}
	svc := newTestDiscovery(&fakeBeachRepo{beaches: many}, nil)

	tests := []struct {
		name      string
		view      View
		page      int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{name: "list default", view: ViewList, wantLen: 20, wantFirst: "b000"},
		{name: "list over cap", view: ViewList, limit: 1000, wantLen: 20, wantFirst: "b000"},
		{name: "list small limit", view: ViewList, limit: 5, wantLen: 5, wantFirst: "b000"},
		{name: "list page two", view: ViewList, page: 2, wantLen: 20, wantFirst: "b020"},
		{name: "map default", view: ViewMap, wantLen: 500, wantFirst: "b000"},
		{name: "map last page", view: ViewMap, page: 2, wantLen: 100, wantFirst: "b500"},
		{name: "past the end", view: ViewList, page: 40, wantLen: 0},
		{name: "largest page", view: ViewMap, page: math.MaxInt, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			criteria := domain.NewFilterCriteria(domain.FilterInput{Page: tt.page, Limit: tt.limit})
			res, err := svc.Discover(context.Background(), DiscoveryRequest{Criteria: criteria, View: tt.view})
			if err != nil {
				t.Fatalf("discover: %v", err)
			}
			if len(res.Items) != tt.wantLen {
				t.Fatalf("items = %d, want %d", len(res.Items), tt.wantLen)
			}
			if res.Total != 600 {
				t.Fatalf("total = %d, want 600", res.Total)
			}
			if tt.wantLen > 0 && res.Items[0].Beach.ID != tt.wantFirst {
				t.Fatalf("first = %s, want %s", res.Items[0].Beach.ID, tt.wantFirst)
			}
		})
	}
}

func TestDiscoverCrowdOnlyWhenRequested(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)
	res, err := svc.Discover(context.Background(), DiscoveryRequest{
		Criteria:     domain.NewFilterCriteria(domain.FilterInput{}),
		IncludeCrowd: true,
		CrowdHorizon: 3,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	for _, item := range res.Items {
		if item.Crowd == nil {
			t.Fatalf("%s is missing a crowd estimate", item.Beach.ID)
		}
		if item.Crowd.Level == domain.CrowdUnknown {
			t.Fatalf("%s has an unknown crowd level", item.Beach.ID)
		}
		if len(item.Crowd.Forecast) != 3 {
			t.Fatalf("%s forecast = %d slots, want 3", item.Beach.ID, len(item.Crowd.Forecast))
		}
	}
}

func TestDiscoverRejectsOriginOutsideServiceArea(t *testing.T) {
	t.Parallel()

	repo := &fakeBeachRepo{beaches: sampleBeaches()}
	svc := newTestDiscovery(repo, nil)
	_, err := svc.Discover(context.Background(), DiscoveryRequest{Origin: &domain.Coordinates{Lat: 40.7, Lng: -74.0}})
	if !errors.Is(err, domain.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if repo.queryCount() != 0 {
		t.Fatalf("queries = %d, want 0", repo.queryCount())
	}
}

func TestDiscoverCollection(t *testing.T) {
	t.Parallel()

	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, nil)

	res, err := svc.DiscoverCollection(context.Background(), "beaches-near-san-juan", DiscoveryRequest{
		Criteria: domain.NewFilterCriteria(domain.FilterInput{}),
	})
	if err != nil {
		t.Fatalf("discover collection: %v", err)
	}
	if res.Collection == nil || res.Collection.Key != "beaches-near-san-juan" {
		t.Fatalf("collection = %+v", res.Collection)
	}
	if !res.ContextFallback {
		t.Fatal("expected context fallback")
	}
	if res.Origin == nil || *res.Origin != SanJuan {
		t.Fatalf("origin = %v, want the anchor", res.Origin)
	}
	want := []string{"condado", "ocean-park", "isla-verde"}
	if got := itemIDs(res.Items)[:3]; !slices.Equal(got, want) {
		t.Fatalf("nearest = %v, want %v", got, want)
	}

	if _, err := svc.DiscoverCollection(context.Background(), "missing", DiscoveryRequest{}); !errors.Is(err, domain.ErrUnknownCollection) {
		t.Fatalf("err = %v, want ErrUnknownCollection", err)
	}
}

func TestDetail(t *testing.T) {
	t.Parallel()

	reviews := &fakeReviewRepo{created: []domain.Review{
		{ID: "r1", BeachID: "domes", Rating: 5, Status: domain.ReviewApproved},
		{ID: "r2", BeachID: "domes", Rating: 1, Status: domain.ReviewPending},
	}}
	svc := newTestDiscovery(&fakeBeachRepo{beaches: sampleBeaches()}, reviews)

	detail, err := svc.Detail(context.Background(), "domes-slug")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Beach.ID != "domes" || detail.Rating.Source != domain.RatingSourceCommunity {
		t.Fatalf("detail = %s rated by %s", detail.Beach.ID, detail.Rating.Source)
	}
	if len(detail.Reviews) != 1 || detail.Reviews[0].ID != "r1" {
		t.Fatalf("reviews = %+v, want only the approved one", detail.Reviews)
	}

	for _, id := range []string{"draft-cove", "unknown", "  "} {
		if _, err := svc.Detail(context.Background(), id); !errors.Is(err, domain.ErrBeachNotFound) {
			t.Fatalf("detail(%q) err = %v, want ErrBeachNotFound", id, err)
		}
	}
}
