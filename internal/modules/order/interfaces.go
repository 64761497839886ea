package order

import (
	"context"
	"time"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

type OrderRepositoryInterface interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, f repository.OrderFilter, limit, offset int) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, agreedPrice *float64, deadline, completedAt *time.Time) error
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	IncrementOrdersCount(ctx context.Context, id int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	IncrementCompletedOrders(ctx context.Context, masterID int64) error
}

// NotificationSender is the slice of the notification service orders use.
type NotificationSender interface {
	NotifyNewOrder(ctx context.Context, masterID, orderID int64, serviceTitle string) error
	NotifyOrderStatus(ctx context.Context, customerID, orderID int64, serviceTitle string, status domain.OrderStatus) error
}
