package plan

import (
	"context"
	"errors"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/logger"
)

type Service interface {
	List(ctx context.Context, target string) ([]Plan, error)
	Mine(ctx context.Context, userID string) (*Subscription, error)
	Subscribe(ctx context.Context, userID string, planID int64) (*Subscription, error)
	Cancel(ctx context.Context, userID string) (bool, error)
	Recommend(ctx context.Context, who auth.Identity) (*Plan, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, target string) ([]Plan, error) {
	switch target {
	case "", TargetCustomer, TargetProvider, TargetBoth:
	default:
		return nil, apperr.Validation("Invalid target")
	}
	return s.repo.ListActive(ctx, target)
}

// Mine returns the user's active subscription, or nil when there is none.
func (s *service) Mine(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.repo.Current(ctx, userID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, nil
	}
	return sub, err
}

func (s *service) Subscribe(ctx context.Context, userID string, planID int64) (*Subscription, error) {
	if planID <= 0 {
		return nil, apperr.Validation("plan_id is required")
	}
	if _, err := s.repo.GetActive(ctx, planID); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, apperr.NotFound("Plan not found or inactive")
		}
		return nil, err
	}

	sub, err := s.repo.Subscribe(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	logger.Info("plan subscribed", "user_id", userID, "plan_id", planID)
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, userID string) (bool, error) {
	return s.repo.Cancel(ctx, userID)
}

// Recommend prefers the flagged plan for the caller's audience and falls back
// to the cheapest one. A nil plan means nothing is on offer.
func (s *service) Recommend(ctx context.Context, who auth.Identity) (*Plan, error) {
	target := TargetFor(who.Role)

	p, err := s.repo.FindRecommended(ctx, target)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPlanNotFound) {
		return nil, err
	}

	p, err = s.repo.FindCheapest(ctx, target)
	if errors.Is(err, ErrPlanNotFound) {
		return nil, nil
	}
	return p, err
}
