package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

// ErrRateLimited is returned when either lead-capture window is exhausted.
var ErrRateLimited = errors.New("rate limited")

// RateLimitError names the window that rejected the request.
type RateLimitError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s", e.Scope)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Rate-limit scopes.
const (
	ScopeRequester = "requester"
	ScopeEmail     = "email"

	actionBeachList = "lead.beach_list"
)

// LeadPolicy holds the independent windows for lead capture.
type LeadPolicy struct {
	PerRequester int
	PerEmail     int
	Window       time.Duration
	// MaxBeaches caps how many beaches one email can list.
	MaxBeaches int
}

// DefaultLeadPolicy applies when no policy is configured.
var DefaultLeadPolicy = LeadPolicy{PerRequester: 5, PerEmail: 3, Window: 10 * time.Minute, MaxBeaches: 20}

// BeachListLead asks for a curated list of beaches to be emailed.
type BeachListLead struct {
	Email         string   `json:"email" validate:"required,email,max=254"`
	Name          string   `json:"name" validate:"max=120"`
	CollectionKey string   `json:"collection" validate:"required_without=BeachIDs,max=64"`
	BeachIDs      []string `json:"beach_ids" validate:"required_without=CollectionKey,max=50,dive,required,max=64"`
	RequesterID   string   `json:"-" validate:"required"`
}

// LeadReceipt acknowledges a delivered lead.
type LeadReceipt struct {
	ID         string
	BeachCount int
	SentAt     time.Time
}

// LeadService emails discovery output to visitors behind two rate-limit windows.
type LeadService struct {
	discovery DiscoveryService
	beaches   BeachRepository
	limiter   RateLimiter
	mailer    Mailer
	policy    LeadPolicy
	now       func() time.Time
}

// NewLeadService wires lead capture.
func NewLeadService(discovery DiscoveryService, beaches BeachRepository, limiter RateLimiter, mailer Mailer, policy LeadPolicy) *LeadService {
	if policy.PerRequester <= 0 {
		policy.PerRequester = DefaultLeadPolicy.PerRequester
	}
	if policy.PerEmail <= 0 {
		policy.PerEmail = DefaultLeadPolicy.PerEmail
	}
	if policy.Window <= 0 {
		policy.Window = DefaultLeadPolicy.Window
	}
	if policy.MaxBeaches <= 0 {
		policy.MaxBeaches = DefaultLeadPolicy.MaxBeaches
	}
	return &LeadService{
		discovery: discovery,
		beaches:   beaches,
		limiter:   limiter,
		mailer:    mailer,
		policy:    policy,
		now:       time.Now,
	}
}

// SendBeachList validates the lead, checks the requester and email windows, resolves the
// beaches and hands the message to the mailer.
func (s *LeadService) SendBeachList(ctx context.Context, lead BeachListLead) (LeadReceipt, error) {
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Name = strings.TrimSpace(lead.Name)
	lead.CollectionKey = strings.TrimSpace(lead.CollectionKey)
	if err := validation.Struct(lead); err != nil {
		return LeadReceipt{}, err
	}

	if err := s.checkLimit(ctx, lead.RequesterID, ScopeRequester, s.policy.PerRequester); err != nil {
		return LeadReceipt{}, err
	}
	if err := s.checkLimit(ctx, lead.Email, ScopeEmail, s.policy.PerEmail); err != nil {
		return LeadReceipt{}, err
	}

	title, items, err := s.resolveBeaches(ctx, lead)
	if err != nil {
		return LeadReceipt{}, err
	}

	receipt := LeadReceipt{ID: uuid.NewString(), BeachCount: len(items), SentAt: s.now().UTC()}
	msg := Email{
		To:      lead.Email,
		Subject: title,
		Body:    renderBeachListEmail(lead.Name, title, items),
		Tags:    []string{"lead", "beach-list", receipt.ID},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return LeadReceipt{}, fmt.Errorf("send beach list: %w", err)
	}
	return receipt, nil
}

func (s *LeadService) checkLimit(ctx context.Context, identifier, scope string, limit int) error {
	allowed, err := s.limiter.Allow(ctx, identifier, actionBeachList+"."+scope, limit, s.policy.Window)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if !allowed {
		metrics.LeadRateLimited.WithLabelValues(scope).Inc()
		return &RateLimitError{Scope: scope, RetryAfter: s.policy.Window}
	}
	return nil
}

func (s *LeadService) resolveBeaches(ctx context.Context, lead BeachListLead) (string, []BeachResult, error) {
	if lead.CollectionKey != "" {
		criteria := domain.NewFilterCriteria(domain.FilterInput{Limit: s.policy.MaxBeaches})
		result, err := s.discovery.DiscoverCollection(ctx, lead.CollectionKey, DiscoveryRequest{Criteria: criteria, View: ViewList})
		if err != nil {
			return "", nil, err
		}
		return result.Collection.Title, result.Items, nil
	}

	ids := lead.BeachIDs
	if len(ids) > s.policy.MaxBeaches {
		ids = ids[:s.policy.MaxBeaches]
	}
	beaches, err := s.beaches.FindPublishedByIDs(ctx, ids)
	if err != nil {
		return "", nil, fmt.Errorf("load beaches: %w", err)
	}
	if len(beaches) == 0 {
		return "", nil, domain.ErrBeachNotFound
	}
	items := make([]BeachResult, 0, len(beaches))
	for _, b := range beaches {
		items = append(items, BeachResult{Beach: b, Rating: domain.RatingFor(b)})
	}
	return "Your beach list", items, nil
}

func renderBeachListEmail(name, title string, items []BeachResult) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", name)
	} else {
		b.WriteString("Hi,\n\n")
	}
	fmt.Fprintf(&b, "Here is %s:\n\n", strings.ToLower(title))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s", i+1, item.Beach.Name)
		if item.Beach.Municipality != "" {
			fmt.Fprintf(&b, " (%s)", item.Beach.Municipality)
		}
		if display := item.Rating.Display(); display != "" {
			fmt.Fprintf(&b, " - %s", display)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nEnjoy the water and check conditions before you go.\n")
	return b.String()
}
