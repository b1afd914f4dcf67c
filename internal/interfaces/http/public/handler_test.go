package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	"github.com/prbeaches/directory/api/internal/logging"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

type memoryBeaches struct {
	beaches []domain.Beach
}

func (m *memoryBeaches) FindPublished(_ context.Context, criteria domain.FilterCriteria) ([]domain.Beach, error) {
	var out []domain.Beach
	for _, b := range m.beaches {
		if b.Published() && criteria.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBeaches) FindPublishedByIDs(_ context.Context, ids []string) ([]domain.Beach, error) {
	var out []domain.Beach
	for _, id := range ids {
		for _, b := range m.beaches {
			if b.ID == id && b.Published() {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (m *memoryBeaches) FindByIDOrSlug(_ context.Context, idOrSlug string) (*domain.Beach, error) {
	for _, b := range m.beaches {
		if b.ID == idOrSlug || b.Slug == idOrSlug {
			found := b
			return &found, nil
		}
	}
	return nil, domain.ErrBeachNotFound
}

type memoryReviews struct {
	reviews []domain.Review
}

func (m *memoryReviews) Create(_ context.Context, r *domain.Review) error {
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memoryReviews) ListApproved(_ context.Context, beachID string, limit int) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range m.reviews {
		if r.BeachID == beachID && r.Status == domain.ReviewApproved && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type countingLimiter struct {
	counts map[string]int
}

func (c *countingLimiter) Allow(_ context.Context, identifier, action string, limit int, _ time.Duration) (bool, error) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[action+"|"+identifier]++
	return c.counts[action+"|"+identifier] <= limit, nil
}

type recordingMailer struct {
	sent []publicapp.Email
}

func (m *recordingMailer) Send(_ context.Context, msg publicapp.Email) error {
	m.sent = append(m.sent, msg)
	return nil
}

type stubWeather struct {
	snapshot domain.WeatherSnapshot
	err      error
}

func (s stubWeather) Snapshot(context.Context, domain.Coordinates) (domain.WeatherSnapshot, error) {
	return s.snapshot, s.err
}

func facet(v float64, count int) domain.RatingFacet {
	return domain.RatingFacet{Value: &v, Count: count}
}

func testBeaches() []domain.Beach {
	condado := domain.Beach{
		ID:           "condado",
		Slug:         "condado-beach",
		Name:         "Condado",
		Municipality: "San Juan",
		Coordinates:  domain.Coordinates{Lat: 18.4590, Lng: -66.0733},
		Description:  "Urban beach <b>with</b> hotels",
		Tags:         []string{"swimming", "nightlife"},
		Amenities:    []string{"lifeguard", "restrooms"},
		ThirdParty:   facet(4.1, 800),
		Status:       domain.StatePublished,
	}
	domes := domain.Beach{
		ID:           "domes",
		Slug:         "domes-beach",
		Name:         "Domes",
		Municipality: "Rincón",
		Coordinates:  domain.Coordinates{Lat: 18.3651, Lng: -67.2696},
		Tags:         []string{"surfing", "sunset"},
		Gallery:      []string{"https://img.example.com/domes-1.jpg"},
		ThirdParty:   facet(4.5, 300),
		Community:    facet(4.9, 40),
		Status:       domain.StatePublished,
	}
	draft := domain.Beach{
		ID:           "draft-cove",
		Slug:         "draft-cove",
		Name:         "Draft Cove",
		Municipality: "Rincón",
		Coordinates:  domain.Coordinates{Lat: 18.35, Lng: -67.26},
		Tags:         []string{"surfing"},
		Status:       domain.StateDraft,
	}
	return []domain.Beach{condado, domes, draft}
}

type testEnv struct {
	router  chi.Router
	mailer  *recordingMailer
	reviews *memoryReviews
}

func newTestEnv(t *testing.T, provider publicapp.WeatherProvider) testEnv {
	t.Helper()

	loc, err := time.LoadLocation("America/Puerto_Rico")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2024, 7, 6, 14, 30, 0, 0, loc)
	beaches := &memoryBeaches{beaches: testBeaches()}
	reviews := &memoryReviews{}
	mailer := &recordingMailer{}
	estimator := domain.NewCrowdEstimator(loc)

	discovery := publicapp.NewDiscoveryService(publicapp.DiscoveryConfig{
		Beaches:     beaches,
		Reviews:     reviews,
		Collections: publicapp.MustCollectionRegistry(publicapp.DefaultCollections()...),
		Estimator:   estimator,
		Clock:       func() time.Time { return now },
	})
	h := NewHandler(Config{
		Logger:    logging.NewTestLogger(io.Discard),
		Discovery: discovery,
		Weather:   publicapp.NewWeatherService(discovery, provider),
		Leads: publicapp.NewLeadService(discovery, beaches, &countingLimiter{}, mailer, publicapp.LeadPolicy{
			PerRequester: 2,
			PerEmail:     5,
			Window:       time.Minute,
		}),
		Reviews:   publicapp.NewReviewCommandService(beaches, reviews),
		Estimator: estimator,
		Location:  loc,
		Clock:     func() time.Time { return now },
	})

	fakeAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				common.WriteMessage(logging.NewTestLogger(io.Discard), w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required")
				return
			}
			ctx := common.ContextWithUser(r.Context(), common.AuthenticatedUser{ID: "user-1", Name: "Marisol"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	h.Register(r, fakeAuth)
	return testEnv{router: r, mailer: mailer, reviews: reviews}
}

func (e testEnv) do(t *testing.T, method, target string, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.9:51234"
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type listBody struct {
	Items []map[string]any `json:"items"`
	Meta  struct {
		Total           int    `json:"total"`
		View            string `json:"view"`
		Sort            string `json:"sort"`
		ContextFallback bool   `json:"context_fallback"`
		HasLocation     bool   `json:"has_location"`
		Collection      *struct {
			Key string `json:"key"`
		} `json:"collection"`
		Page    int `json:"page"`
		Filters struct {
			Tags          []string `json:"tags"`
			Lifeguard     bool     `json:"lifeguard"`
			MaxDistanceKm *float64 `json:"max_distance_km"`
		} `json:"filters"`
	} `json:"meta"`
}

func TestBeachList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantTotal    int
		wantView     string
		wantLocation bool
		wantCode     string
	}{
		{name: "all published", target: "/beaches", wantStatus: http.StatusOK, wantTotal: 2, wantView: "list"},
		{name: "map view", target: "/beaches/map", wantStatus: http.StatusOK, wantTotal: 2, wantView: "map"},
		{name: "tag filter", target: "/beaches?tags=surfing", wantStatus: http.StatusOK, wantTotal: 1, wantView: "list"},
		{name: "unknown tag ignored", target: "/beaches?tags=skiing", wantStatus: http.StatusOK, wantTotal: 2, wantView: "list"},
		{name: "lifeguard alias", target: "/beaches?amenities=salvavidas", wantStatus: http.StatusOK, wantTotal: 1, wantView: "list"},
		{name: "no matches", target: "/beaches?q=glacier", wantStatus: http.StatusOK, wantTotal: 0, wantView: "list"},
		{name: "origin", target: "/beaches?lat=18.46&lng=-66.07", wantStatus: http.StatusOK, wantTotal: 2, wantView: "list", wantLocation: true},
		{name: "malformed origin ignored", target: "/beaches?lat=north&lng=-66.07", wantStatus: http.StatusOK, wantTotal: 2, wantView: "list"},
		{name: "origin outside service area", target: "/beaches?lat=25.76&lng=-80.19", wantStatus: http.StatusBadRequest, wantCode: common.CodeOutOfBounds},
		{name: "unknown collection param", target: "/beaches?collection=best-skiing", wantStatus: http.StatusNotFound, wantCode: common.CodeUnknownCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			rec := env.do(t, http.MethodGet, tt.target, "", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				body := decode[common.ErrorResponse](t, rec)
				if body.Code != tt.wantCode {
					t.Fatalf("code = %q, want %q", body.Code, tt.wantCode)
				}
				return
			}

			body := decode[listBody](t, rec)
			if body.Items == nil {
				t.Fatal("items must be an array, never null")
			}
			if body.Meta.Total != tt.wantTotal || len(body.Items) != tt.wantTotal {
				t.Fatalf("total = %d items = %d, want %d", body.Meta.Total, len(body.Items), tt.wantTotal)
			}
			if body.Meta.View != tt.wantView {
				t.Fatalf("view = %q, want %q", body.Meta.View, tt.wantView)
			}
			if body.Meta.HasLocation != tt.wantLocation {
				t.Fatalf("has_location = %v, want %v", body.Meta.HasLocation, tt.wantLocation)
			}
			if body.Meta.Filters.Tags == nil {
				t.Fatal("filters.tags must be an array")
			}
		})
	}
}

func TestBeachListReportsAppliedFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		target       string
		wantTotal    int
		wantItems    int
		wantDistance *float64
		wantPage     int
	}{
		{name: "distance without origin", target: "/beaches?max_distance=10", wantTotal: 2, wantItems: 2, wantPage: 1},
		{name: "distance with origin", target: "/beaches?max_distance=10&lat=18.46&lng=-66.07", wantTotal: 1, wantItems: 1, wantDistance: ptr(10.0), wantPage: 1},
		{name: "page beyond int range", target: "/beaches?page=9223372036854775807", wantTotal: 2, wantPage: 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			rec := env.do(t, http.MethodGet, tt.target, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			body := decode[listBody](t, rec)
			if body.Meta.Total != tt.wantTotal || len(body.Items) != tt.wantItems {
				t.Fatalf("total = %d items = %d, want %d/%d", body.Meta.Total, len(body.Items), tt.wantTotal, tt.wantItems)
			}
			if body.Meta.Page != tt.wantPage {
				t.Fatalf("page = %d, want %d", body.Meta.Page, tt.wantPage)
			}
			got := body.Meta.Filters.MaxDistanceKm
			switch {
			case tt.wantDistance == nil && got != nil:
				t.Fatalf("max_distance_km = %v, want omitted", *got)
			case tt.wantDistance != nil && (got == nil || *got != *tt.wantDistance):
				t.Fatalf("max_distance_km = %v, want %v", got, *tt.wantDistance)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestBeachListAnnotations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/beaches?lat=18.46&lng=-66.07&sort=distance&crowd=1&crowd_hours=3", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[listBody](t, rec)
	if body.Meta.Sort != "distance" {
		t.Fatalf("sort = %q, want distance", body.Meta.Sort)
	}
	first := body.Items[0]
	if first["id"] != "condado" {
		t.Fatalf("first = %v, want the nearest beach", first["id"])
	}
	if _, ok := first["distance_km"]; !ok {
		t.Fatal("distance must be annotated when an origin is given")
	}
	crowd, ok := first["crowd"].(map[string]any)
	if !ok {
		t.Fatalf("crowd missing: %v", first)
	}
	if forecast, _ := crowd["forecast"].([]any); len(forecast) != 3 {
		t.Fatalf("forecast = %d hours, want 3", len(forecast))
	}

	rating, ok := body.Items[1]["rating"].(map[string]any)
	if !ok || rating["source"] != "community" || rating["display"] != "4.9 (40 reviews)" {
		t.Fatalf("rating = %v, want community facet", body.Items[1]["rating"])
	}
}

func TestCollections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/collections", "", nil)
	index := decode[struct {
		Items []collectionResponse `json:"items"`
	}](t, rec)
	if len(index.Items) != len(publicapp.DefaultCollections()) {
		t.Fatalf("collections = %d, want %d", len(index.Items), len(publicapp.DefaultCollections()))
	}

	rec = env.do(t, http.MethodGet, "/collections/beaches-with-lifeguards", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[listBody](t, rec)
	if body.Meta.Collection == nil || body.Meta.Collection.Key != "beaches-with-lifeguards" {
		t.Fatalf("collection meta = %+v", body.Meta.Collection)
	}
	if body.Meta.Total != 1 || !body.Meta.Filters.Lifeguard {
		t.Fatalf("meta = %+v", body.Meta)
	}

	rec = env.do(t, http.MethodGet, "/collections/best-skiing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown collection status = %d, want 404", rec.Code)
	}
}

func TestBeachDetail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/beaches/domes-beach", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "" {
		t.Fatalf("json detail must not be cached, got %q", cc)
	}
	detail := decode[beachDetailResponse](t, rec)
	if detail.ID != "domes" || detail.Rating == nil || detail.Rating.Source != "community" {
		t.Fatalf("detail = %+v", detail)
	}
	if detail.AggregateRating["reviewCount"] != float64(40) {
		t.Fatalf("aggregate rating = %v", detail.AggregateRating)
	}

	for _, target := range []string{"/beaches/draft-cove", "/beaches/nowhere"} {
		if rec := env.do(t, http.MethodGet, target, "", nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", target, rec.Code)
		}
	}
}

func TestBeachDetailFragment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		target string
		header http.Header
	}{
		{name: "format param", target: "/beaches/condado?format=fragment"},
		{name: "accept header", target: "/beaches/condado", header: http.Header{"Accept": {"text/html"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, "", tt.header)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("content type = %q", ct)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
				t.Fatalf("cache control = %q", cc)
			}
			html := rec.Body.String()
			if !strings.Contains(html, "<h2>Condado</h2>") || !strings.Contains(html, "4.1 (800 reviews)") {
				t.Fatalf("fragment = %s", html)
			}
			if strings.Contains(html, "<b>with</b>") {
				t.Fatal("description must be escaped")
			}
		})
	}
}

func TestBeachWeather(t *testing.T) {
	t.Parallel()

	sunny := domain.WeatherSnapshot{Temperature: 28, WindSpeed: 10, UVIndex: 7, PrecipitationProbability: 10}
	rec := newTestEnv(t, stubWeather{snapshot: sunny}).do(t, http.MethodGet, "/beaches/condado/weather", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[weatherResponse](t, rec)
	if !body.Available || body.Recommendation == nil || body.Recommendation.Tier != string(domain.WeatherExcellent) {
		t.Fatalf("weather = %+v", body)
	}

	rec = newTestEnv(t, stubWeather{err: errors.New("upstream timeout")}).do(t, http.MethodGet, "/beaches/condado/weather", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded status = %d, want 200", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"available":false`)) {
		t.Fatalf("degraded body = %s", rec.Body.String())
	}

	rec = newTestEnv(t, stubWeather{snapshot: sunny}).do(t, http.MethodGet, "/beaches/draft-cove/weather", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("draft status = %d, want 404", rec.Code)
	}
}

func TestCrowdBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/crowd?ids=condado,domes&ids=condado&hours=99", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[crowdBatchResponse](t, rec)
	if len(body.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(body.Items))
	}
	if body.Hours != domain.MaxCrowdHorizon {
		t.Fatalf("hours = %d, want clamp to %d", body.Hours, domain.MaxCrowdHorizon)
	}
	if got := len(body.Items["domes"].Forecast); got != domain.MaxCrowdHorizon {
		t.Fatalf("forecast = %d, want %d", got, domain.MaxCrowdHorizon)
	}

	if rec := env.do(t, http.MethodGet, "/crowd", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing ids status = %d, want 400", rec.Code)
	}
}

func TestBeachListLead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/leads/list", `{"email":"visitor@example.com","name":"Ana","collection":"beaches-with-lifeguards"}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	receipt := decode[leadReceiptResponse](t, rec)
	if receipt.ID == "" || receipt.BeachCount != 1 {
		t.Fatalf("receipt = %+v", receipt)
	}
	if len(env.mailer.sent) != 1 || env.mailer.sent[0].To != "visitor@example.com" {
		t.Fatalf("sent = %+v", env.mailer.sent)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: common.CodeBadRequest},
		{name: "trailing data", body: `{"email":"a@example.com","beach_ids":["domes"]} {}`, wantStatus: http.StatusBadRequest, wantCode: common.CodeBadRequest},
		{name: "invalid email", body: `{"email":"nope","beach_ids":["domes"]}`, wantStatus: http.StatusBadRequest, wantCode: common.CodeValidation},
		{name: "unknown collection", body: `{"email":"a@example.com","collection":"best-skiing"}`, wantStatus: http.StatusNotFound, wantCode: common.CodeUnknownCollection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := newTestEnv(t, nil).do(t, http.MethodPost, "/leads/list", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if body := decode[common.ErrorResponse](t, rec); body.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestBeachListLeadRateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	var rec *httptest.ResponseRecorder
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec = env.do(t, http.MethodPost, "/leads/list", `{"email":"`+email+`","beach_ids":["domes"]}`, nil)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("retry-after = %q, want 60", rec.Header().Get("Retry-After"))
	}
	if len(env.mailer.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(env.mailer.sent))
	}
}

func TestReviewCreate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	auth := http.Header{"Authorization": {"Bearer test"}}

	if rec := env.do(t, http.MethodPost, "/beaches/domes/reviews", `{"rating":5}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/beaches/domes-beach/reviews", `{"rating":5,"comment":" Perfect sunset "}`, auth)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	review := decode[reviewResponse](t, rec)
	if review.Status != string(domain.ReviewPending) || review.BeachID != "domes" || review.AuthorName != "Marisol" {
		t.Fatalf("review = %+v", review)
	}
	if len(env.reviews.reviews) != 1 || env.reviews.reviews[0].AuthorID != "user-1" {
		t.Fatalf("stored = %+v", env.reviews.reviews)
	}

	if rec := env.do(t, http.MethodPost, "/beaches/domes/reviews", `{"rating":9}`, auth); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid rating status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/beaches/draft-cove/reviews", `{"rating":4}`, auth); rec.Code != http.StatusNotFound {
		t.Fatalf("draft status = %d, want 404", rec.Code)
	}
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	rec := newTestEnv(t, nil).do(t, http.MethodGet, "/vocabulary", "", nil)
	body := decode[vocabularyResponse](t, rec)
	if len(body.Tags) != len(domain.Tags) || len(body.Sorts) != 4 || len(body.CrowdLevels) != len(domain.CrowdLevels) {
		t.Fatalf("vocabulary = %+v", body)
	}
}
