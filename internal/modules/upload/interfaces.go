package upload

import (
	"context"

	"craftmarket/internal/domain"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error
}

type ServiceRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	SetImages(ctx context.Context, id int64, images []string) error
}
