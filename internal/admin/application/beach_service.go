package application

import (
	"context"
	"fmt"
	"time"

	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

type beachService struct {
	repo BeachRepository
	now  func() time.Time
}

func NewBeachService(repo BeachRepository) BeachService {
	return &beachService{repo: repo, now: time.Now}
}

func (s *beachService) List(ctx context.Context, filter BeachFilter, paging Paging) ([]publicdomain.Beach, error) {
	return s.repo.List(ctx, filter, paging)
}

func (s *beachService) Detail(ctx context.Context, id string) (*publicdomain.Beach, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *beachService) SetStatus(ctx context.Context, id string, cmd SetStatusCommand) (*admindomain.StatusChange, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	target, err := publicdomain.ParsePublishState(cmd.Status)
	if err != nil {
		return nil, err
	}
	actor, err := admindomain.NewActor(cmd.Actor)
	if err != nil {
		return nil, err
	}

	beach, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == publicdomain.StatePublished {
		// Only complete records may go live.
		candidate := *beach
		candidate.Status = target
		if err := candidate.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", admindomain.ErrNotPublishable, id, err)
		}
	}

	change := &admindomain.StatusChange{
		BeachID:   beach.ID,
		From:      beach.Status,
		To:        target,
		ChangedBy: actor,
		ChangedAt: s.now().UTC(),
	}
	if change.Noop() {
		return change, nil
	}
	if err := s.repo.SetStatus(ctx, beach.ID, target, change.ChangedAt); err != nil {
		return nil, err
	}
	return change, nil
}
