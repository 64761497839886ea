package catalog

import (
	"context"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

type ServiceRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, f repository.ServiceFilter, limit, offset int) ([]domain.Service, int64, error)
	ListByMaster(ctx context.Context, masterID int64, limit, offset int) ([]domain.Service, int64, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
