package user

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
