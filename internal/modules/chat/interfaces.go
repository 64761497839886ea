package chat

import (
	"context"

	"craftmarket/internal/domain"
)

type MessageRepositoryInterface interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByOrder(ctx context.Context, orderID int64, limit, offset int) ([]domain.Message, int64, error)
	GetLastByOrder(ctx context.Context, orderID int64) (*domain.Message, error)
	CountUnread(ctx context.Context, orderID, receiverID int64) (int64, error)
	MarkRead(ctx context.Context, orderID, receiverID int64) (int64, error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByParticipant(ctx context.Context, userID int64) ([]domain.Order, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationSender interface {
	NotifyNewMessage(ctx context.Context, receiverID, orderID int64) error
}

// Broadcaster pushes live events to connected clients. The hub satisfies
// it; tests stub it out.
type Broadcaster interface {
	BroadcastToRoom(roomID string, event *WSEvent)
}
