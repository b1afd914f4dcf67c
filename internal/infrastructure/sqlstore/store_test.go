package sqlstore

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr(v float64) *float64 { return &v }

func seedBeaches(t *testing.T, repo *BeachRepository) map[string]string {
	t.Helper()
	beaches := []domain.Beach{
		{
			Slug:         "condado",
			Name:         "Condado",
			Municipality: "San Juan",
			Coordinates:  domain.Coordinates{Lat: 18.4590, Lng: -66.0733},
			Tags:         []string{"swimming", "nightlife"},
			Amenities:    []string{"Lifeguard", "restrooms"},
			ThirdParty:   domain.RatingFacet{Value: ptr(4.1), Count: 800},
			Status:       domain.StatePublished,
		},
		{
			Slug:         "domes",
			Name:         "Domes",
			Municipality: "Rincón",
			Coordinates:  domain.Coordinates{Lat: 18.3651, Lng: -67.2696},
			Tags:         []string{"surfing", "sunset"},
			Description:  "Reef break next to the old 100% nuclear dome",
			Status:       domain.StatePublished,
		},
		{
			Slug:         "tres-palmas",
			Name:         "Tres Palmas",
			Municipality: "Rincón",
			Coordinates:  domain.Coordinates{Lat: 18.3480, Lng: -67.2640},
			Tags:         []string{"surfing", "reef"},
			Amenities:    []string{"salvavidas"},
			Status:       domain.StatePublished,
		},
		{
			Slug:         "steps",
			Name:         "Steps",
			Municipality: "Rincón",
			Coordinates:  domain.Coordinates{Lat: 18.3560, Lng: -67.2660},
			Tags:         []string{"snorkeling"},
			Status:       domain.StateDraft,
		},
	}
	ids := make(map[string]string, len(beaches))
	for i := range beaches {
		if err := repo.Upsert(context.Background(), &beaches[i]); err != nil {
			t.Fatalf("upsert %s: %v", beaches[i].Slug, err)
		}
		ids[beaches[i].Slug] = beaches[i].ID
	}
	return ids
}

func slugs(beaches []domain.Beach) []string {
	out := make([]string, 0, len(beaches))
	for _, b := range beaches {
		out = append(out, b.Slug)
	}
	return out
}

func TestFindPublishedPredicates(t *testing.T) {
	store := openTestStore(t)
	repo := NewBeachRepository(store)
	seedBeaches(t, repo)

	tests := []struct {
		name  string
		input domain.FilterInput
		want  []string
	}{
		{name: "everything published", want: []string{"condado", "domes", "tres-palmas"}},
		{name: "municipality", input: domain.FilterInput{Municipality: "Rincón"}, want: []string{"domes", "tres-palmas"}},
		{name: "all tags required", input: domain.FilterInput{Tags: []string{"surfing", "reef"}}, want: []string{"tres-palmas"}},
		{name: "amenity stored lowercase", input: domain.FilterInput{Amenities: []string{"restrooms"}}, want: []string{"condado"}},
		{name: "lifeguard aliases", input: domain.FilterInput{Lifeguard: true}, want: []string{"condado", "tres-palmas"}},
		{name: "query over description", input: domain.FilterInput{Query: "NUCLEAR"}, want: []string{"domes"}},
		{name: "query folds non-ascii case", input: domain.FilterInput{Query: "RINCÓN"}, want: []string{"domes", "tres-palmas"}},
		{name: "query folds accented lowercase", input: domain.FilterInput{Query: "rincón"}, want: []string{"domes", "tres-palmas"}},
		{name: "percent is literal", input: domain.FilterInput{Query: "100%"}, want: []string{"domes"}},
		{name: "percent is not a wildcard", input: domain.FilterInput{Query: "1%r"}, want: []string{}},
		{name: "underscore is literal", input: domain.FilterInput{Query: "_"}, want: []string{}},
		{name: "draft never matches", input: domain.FilterInput{Tags: []string{"snorkeling"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindPublished(context.Background(), domain.NewFilterCriteria(tt.input))
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if !slices.Equal(slugs(got), tt.want) {
				t.Fatalf("slugs = %v, want %v", slugs(got), tt.want)
			}
		})
	}
}

func TestUpsertIsIdempotentBySlug(t *testing.T) {
	store := openTestStore(t)
	repo := NewBeachRepository(store)
	ids := seedBeaches(t, repo)

	again := domain.Beach{
		Slug:         "condado",
		Name:         "Condado Beach",
		Municipality: "San Juan",
		Coordinates:  domain.Coordinates{Lat: 18.4590, Lng: -66.0733},
		Tags:         []string{"swimming"},
		Gallery:      []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
		Status:       domain.StatePublished,
	}
	if err := repo.Upsert(context.Background(), &again); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if again.ID != ids["condado"] {
		t.Fatalf("id = %s, want existing %s", again.ID, ids["condado"])
	}

	got, err := repo.FindByIDOrSlug(context.Background(), "condado")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Condado Beach" || !slices.Equal(got.Tags, []string{"swimming"}) || len(got.Amenities) != 0 {
		t.Fatalf("beach = %+v, want replaced attributes", got)
	}
	if !slices.Equal(got.Gallery, again.Gallery) {
		t.Fatalf("gallery = %v, want insertion order", got.Gallery)
	}
	if got.ThirdParty.Value != nil {
		t.Fatalf("third party = %v, want cleared", *got.ThirdParty.Value)
	}

	all, err := repo.FindPublished(context.Background(), domain.FilterCriteria{})
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("published = %d, want 3", len(all))
	}
}

func TestFindByIDOrSlug(t *testing.T) {
	store := openTestStore(t)
	repo := NewBeachRepository(store)
	ids := seedBeaches(t, repo)

	byID, err := repo.FindByIDOrSlug(context.Background(), ids["steps"])
	if err != nil || byID.Slug != "steps" {
		t.Fatalf("by id = %+v, %v", byID, err)
	}
	if byID.Status != domain.StateDraft {
		t.Fatalf("status = %s, want draft returned as stored", byID.Status)
	}
	if _, err := repo.FindByIDOrSlug(context.Background(), "nowhere"); !errors.Is(err, domain.ErrBeachNotFound) {
		t.Fatalf("err = %v, want ErrBeachNotFound", err)
	}

	got, err := repo.FindPublishedByIDs(context.Background(), []string{ids["steps"], ids["domes"], " "})
	if err != nil {
		t.Fatalf("by ids: %v", err)
	}
	if !slices.Equal(slugs(got), []string{"domes"}) {
		t.Fatalf("slugs = %v, want only published", slugs(got))
	}
}

func TestReviewsAndCommunityAggregate(t *testing.T) {
	store := openTestStore(t)
	beaches := NewBeachRepository(store)
	ids := seedBeaches(t, beaches)
	reviews := NewReviewRepository(store)
	moderation := NewAdminReviewRepository(store)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, rating := range []int{5, 4, 1} {
		review := domain.Review{
			BeachID:   ids["domes"],
			AuthorID:  "user",
			Rating:    rating,
			Status:    domain.ReviewPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := reviews.Create(ctx, &review); err != nil {
			t.Fatalf("create: %v", err)
		}
		if review.ID == "" {
			t.Fatal("create must assign an id")
		}
		if rating >= 4 {
			if err := moderation.UpdateStatus(ctx, review.ID, domain.ReviewApproved, base); err != nil {
				t.Fatalf("approve: %v", err)
			}
		}
	}

	approved, err := reviews.ListApproved(ctx, ids["domes"], 10)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 2 || approved[0].Rating != 4 {
		t.Fatalf("approved = %+v, want newest first", approved)
	}

	facet, err := moderation.RecalculateCommunity(ctx, ids["domes"])
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if facet.Count != 2 || facet.Value == nil || *facet.Value != 4.5 {
		t.Fatalf("facet = %+v", facet)
	}
	stored, err := beaches.FindByIDOrSlug(ctx, "domes")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Community.Count != 2 {
		t.Fatalf("stored community = %+v", stored.Community)
	}

	pending, err := moderation.List(ctx, adminapp.ReviewFilter{Status: mustReviewStatusFilter(t, "pending")}, adminapp.Paging{})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Rating != 1 {
		t.Fatalf("pending = %+v", pending)
	}

	if err := moderation.UpdateStatus(ctx, "missing", domain.ReviewApproved, base); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestAdminBeachRepository(t *testing.T) {
	store := openTestStore(t)
	ids := seedBeaches(t, NewBeachRepository(store))
	admin := NewAdminBeachRepository(store)
	ctx := context.Background()

	drafts, err := admin.List(ctx, adminapp.BeachFilter{Status: mustStatusFilter(t, "draft")}, adminapp.Paging{})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if !slices.Equal(slugs(drafts), []string{"steps"}) {
		t.Fatalf("drafts = %v", slugs(drafts))
	}

	matches, err := admin.List(ctx, adminapp.BeachFilter{Keyword: "rinc"}, adminapp.Paging{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("keyword: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("keyword page = %v, want 2 of 3", slugs(matches))
	}

	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if err := admin.SetStatus(ctx, ids["steps"], domain.StatePublished, at); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, err := admin.FindByID(ctx, ids["steps"])
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != domain.StatePublished || !got.UpdatedAt.Equal(at) {
		t.Fatalf("beach = %+v", got)
	}

	if err := admin.SetCommunityRating(ctx, "missing", domain.RatingFacet{}, at); !errors.Is(err, domain.ErrBeachNotFound) {
		t.Fatalf("err = %v, want ErrBeachNotFound", err)
	}
}

func TestRebind(t *testing.T) {
	t.Parallel()

	got := rebind(`SELECT * FROM beaches WHERE status = ? AND id IN (?, ?)`)
	want := `SELECT * FROM beaches WHERE status = $1 AND id IN ($2, $3)`
	if got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}
	if placeholders(0) != "" || placeholders(3) != "?, ?, ?" {
		t.Fatal("placeholders mismatch")
	}
}

func mustStatusFilter(t *testing.T, raw string) admindomain.StatusFilter {
	t.Helper()
	f, err := admindomain.NewStatusFilter(raw)
	if err != nil {
		t.Fatalf("status filter: %v", err)
	}
	return f
}

func mustReviewStatusFilter(t *testing.T, raw string) admindomain.ReviewStatusFilter {
	t.Helper()
	f, err := admindomain.NewReviewStatusFilter(raw)
	if err != nil {
		t.Fatalf("review status filter: %v", err)
	}
	return f
}
