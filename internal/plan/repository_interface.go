package plan

import "context"

type Repository interface {
	ListActive(ctx context.Context, target string) ([]Plan, error)
	GetActive(ctx context.Context, id int64) (*Plan, error)
	FindRecommended(ctx context.Context, target string) (*Plan, error)
	FindCheapest(ctx context.Context, target string) (*Plan, error)
	Current(ctx context.Context, userID string) (*Subscription, error)
	Subscribe(ctx context.Context, userID string, planID int64) (*Subscription, error)
	Cancel(ctx context.Context, userID string) (bool, error)
}
