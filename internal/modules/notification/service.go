package notification

import (
	"context"
	"errors"
	"fmt"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	store      Store
	dispatcher *Dispatcher
}

func NewService(store Store, dispatcher *Dispatcher) *Service {
	return &Service{store: store, dispatcher: dispatcher}
}

// ---- Inbox ----

func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, int64, error) {
	return s.store.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	n, err := s.store.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrAccessDenied
	}
	return s.store.MarkAsRead(ctx, notificationID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllAsRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, notificationID int64) error {
	n, err := s.store.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrAccessDenied
	}
	return s.store.Delete(ctx, notificationID)
}

// ---- Fan-out ----

func (s *Service) enqueue(userID int64, t domain.NotificationType, title, content, link string) {
	s.dispatcher.Enqueue(domain.Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Content: content,
		Link:    link,
	})
}

// NotifyNewOrder informs the master about a freshly placed order.
func (s *Service) NotifyNewOrder(ctx context.Context, masterID, orderID int64, serviceTitle string) error {
	s.enqueue(
		masterID,
		domain.NotifNewOrder,
		"Новый заказ",
		fmt.Sprintf("У вас новый заказ на услугу '%s'", serviceTitle),
		fmt.Sprintf("/orders/%d", orderID),
	)
	return nil
}

// statusNotifTypes is the closed status -> notification mapping; statuses
// outside it (in_progress, cancelled) are a silent no-op.
var statusNotifTypes = map[domain.OrderStatus]domain.NotificationType{
	domain.OrderAccepted:  domain.NotifOrderAccepted,
	domain.OrderRejected:  domain.NotifOrderRejected,
	domain.OrderCompleted: domain.NotifOrderCompleted,
}

// NotifyOrderStatus informs the customer about an accepted / rejected /
// completed transition.
func (s *Service) NotifyOrderStatus(ctx context.Context, customerID, orderID int64, serviceTitle string, status domain.OrderStatus) error {
	t, ok := statusNotifTypes[status]
	if !ok {
		return nil
	}
	s.enqueue(
		customerID,
		t,
		fmt.Sprintf("Заказ %s", status),
		fmt.Sprintf("Статус вашего заказа '%s' изменен на %s", serviceTitle, status),
		fmt.Sprintf("/orders/%d", orderID),
	)
	return nil
}

// NotifyNewMessage informs the receiver about a chat message.
func (s *Service) NotifyNewMessage(ctx context.Context, receiverID, orderID int64) error {
	s.enqueue(
		receiverID,
		domain.NotifNewMessage,
		"Новое сообщение",
		"Новое сообщение в заказе",
		fmt.Sprintf("/chat/%d", orderID),
	)
	return nil
}

// NotifyNewReview informs the master about a new review.
func (s *Service) NotifyNewReview(ctx context.Context, masterID, orderID int64, rating int) error {
	s.enqueue(
		masterID,
		domain.NotifNewReview,
		"Новый отзыв",
		fmt.Sprintf("Вы получили новый отзыв с оценкой %d звезд", rating),
		fmt.Sprintf("/orders/%d", orderID),
	)
	return nil
}

// NotifyReviewDisputed informs the customer that the master disputed
// their review.
func (s *Service) NotifyReviewDisputed(ctx context.Context, customerID, orderID int64) error {
	s.enqueue(
		customerID,
		domain.NotifReviewDisputed,
		"Отзыв оспорен",
		"Мастер оспорил ваш отзыв. Администрация рассмотрит обращение.",
		fmt.Sprintf("/orders/%d", orderID),
	)
	return nil
}
