package review

import (
	"context"

	"craftmarket/internal/domain"
)

type ReviewRepositoryInterface interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	GetByOrder(ctx context.Context, orderID int64) (*domain.Review, error)
	ExistsByOrder(ctx context.Context, orderID int64) (bool, error)
	RatingsByMaster(ctx context.Context, masterID int64) ([]int, error)
	ListByMaster(ctx context.Context, masterID int64, limit, offset int) ([]domain.Review, int64, error)
	ListByService(ctx context.Context, serviceID int64, sort string, limit, offset int) ([]domain.Review, int64, error)
	MarkDisputed(ctx context.Context, reviewID int64, reason string) (*domain.Review, error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

type UserWriter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetRatingStats(ctx context.Context, masterID int64, rating float64, totalReviews int) error
}

type NotificationSender interface {
	NotifyNewReview(ctx context.Context, masterID, orderID int64, rating int) error
	NotifyReviewDisputed(ctx context.Context, customerID, orderID int64) error
}
