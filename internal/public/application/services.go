package application

import (
	"context"
	"time"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

// BeachRepository is the read port discovery uses. Implementations AND every stored-column
// predicate of the criteria together and return published beaches only; distance, sorting and
// paging are applied by the caller.
type BeachRepository interface {
	FindPublished(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Beach, error)
	FindPublishedByIDs(ctx context.Context, ids []string) ([]domain.Beach, error)
	// FindByIDOrSlug returns the beach in any publish state, or domain.ErrBeachNotFound.
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Beach, error)
}

// ReviewRepository handles community review reads/writes.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListApproved(ctx context.Context, beachID string, limit int) ([]domain.Review, error)
}

// RateLimiter is a fixed-window counter keyed by (identifier, action).
type RateLimiter interface {
	Allow(ctx context.Context, identifier, action string, limit int, window time.Duration) (bool, error)
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// WeatherProvider fetches a current snapshot for a coordinate.
type WeatherProvider interface {
	Snapshot(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error)
}

// Email is a plain-text outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
	Tags    []string
}

// View selects the response shape and its hard result cap.
type View string

const (
	ViewList View = "list"
	ViewMap  View = "map"
)

// ParseView defaults to the list view.
func ParseView(raw string) View {
	if View(raw) == ViewMap {
		return ViewMap
	}
	return ViewList
}

// Limits bounds discovery responses.
type Limits struct {
	ListCap int
	MapCap  int
}

// DefaultLimits are the caps used when none are configured.
var DefaultLimits = Limits{ListCap: 20, MapCap: 500}

func (l Limits) capFor(v View) int {
	if v == ViewMap {
		if l.MapCap > 0 {
			return l.MapCap
		}
		return DefaultLimits.MapCap
	}
	if l.ListCap > 0 {
		return l.ListCap
	}
	return DefaultLimits.ListCap
}

// DiscoveryRequest carries everything one discovery call depends on. No component reads
// ambient state.
type DiscoveryRequest struct {
	Criteria     domain.FilterCriteria
	Origin       *domain.Coordinates
	View         View
	IncludeCrowd bool
	CrowdHorizon int
	Now          time.Time
}

// BeachResult is one annotated discovery item.
type BeachResult struct {
	Beach          domain.Beach
	Rating         domain.ChosenRating
	DistanceMeters *float64
	Crowd          *domain.CrowdEstimate
}

// DiscoveryResult is a sorted, capped page plus the metadata describing how it was produced.
type DiscoveryResult struct {
	Items           []BeachResult
	Total           int
	Page            int
	Limit           int
	View            View
	Criteria        domain.FilterCriteria
	Origin          *domain.Coordinates
	Collection      *domain.CollectionDefinition
	ContextFallback bool
}

// BeachDetail is the detail surface payload.
type BeachDetail struct {
	Beach   domain.Beach
	Rating  domain.ChosenRating
	Reviews []domain.Review
}

// DiscoveryService is the read model for beach discovery.
type DiscoveryService interface {
	Discover(ctx context.Context, req DiscoveryRequest) (DiscoveryResult, error)
	DiscoverCollection(ctx context.Context, key string, req DiscoveryRequest) (DiscoveryResult, error)
	Detail(ctx context.Context, idOrSlug string) (*BeachDetail, error)
	Collections() []domain.CollectionDefinition
}

// ReviewCommandService handles review submission.
type ReviewCommandService interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error)
}

// SubmitReviewCommand captures an authenticated visitor's review.
type SubmitReviewCommand struct {
	BeachID    string `validate:"required,max=64"`
	AuthorID   string `validate:"required,max=128"`
	AuthorName string `validate:"max=120"`
	Rating     int    `validate:"required,min=1,max=5"`
	Comment    string `validate:"max=2000"`
}
