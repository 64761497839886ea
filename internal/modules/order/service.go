package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

type Service struct {
	orders        OrderRepositoryInterface
	services      ServiceReader
	users         UserReader
	notifications NotificationSender
}

func NewService(orders OrderRepositoryInterface, services ServiceReader, users UserReader, notifications NotificationSender) *Service {
	return &Service{
		orders:        orders,
		services:      services,
		users:         users,
		notifications: notifications,
	}
}

// Create places a new pending order. The master is always the owner of the
// referenced service, never supplied by the client.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateOrderRequest) (*domain.Order, error) {
	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	o := &domain.Order{
		ServiceID:     svc.ID,
		CustomerID:    customerID,
		MasterID:      svc.MasterID,
		Description:   req.Description,
		CustomerNotes: req.CustomerNotes,
		Attachments:   req.Attachments,
		Status:        domain.OrderPending,
		AgreedPrice:   req.AgreedPrice,
		Deadline:      req.Deadline,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.services.IncrementOrdersCount(ctx, svc.ID); err != nil {
		log.Printf("increment_orders_count_failed service_id=%d err=%v", svc.ID, err)
	}

	if err := s.notifications.NotifyNewOrder(ctx, svc.MasterID, o.ID, svc.Title); err != nil {
		log.Printf("notify_new_order_failed order_id=%d err=%v", o.ID, err)
	}

	return o, nil
}

// Get returns an order with its denormalized snapshots. Only participants
// may read it.
func (s *Service) Get(ctx context.Context, userID, orderID int64) (*OrderResponse, error) {
	o, err := s.getParticipant(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	resp := s.enrich(ctx, []domain.Order{*o})
	return &resp[0], nil
}

func (s *Service) List(ctx context.Context, userID int64, q ListQuery) (*ListResponse, error) {
	if q.Status != "" && !domain.OrderStatus(q.Status).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, q.Status)
	}

	limit, offset := clampPage(q.Limit, q.Offset)

	filter := repository.OrderFilter{Role: q.Role, Status: q.Status}
	items, total, err := s.orders.ListByUser(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Orders: s.enrich(ctx, items),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpdateStatus moves an order along the lifecycle. Only the order's master
// may call it, and only moves listed in the transition table are accepted.
func (s *Service) UpdateStatus(ctx context.Context, userID, orderID int64, req UpdateStatusRequest) (*domain.Order, error) {
	next := domain.OrderStatus(req.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	o, err := s.getParticipant(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.MasterID != userID {
		return nil, ErrMasterOnly
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	var completedAt *time.Time
	if next == domain.OrderCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.orders.UpdateStatus(ctx, orderID, o.Status, next, req.AgreedPrice, req.Deadline, completedAt); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			// A concurrent request moved the order first.
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	o.Status = next
	if req.AgreedPrice != nil {
		o.AgreedPrice = req.AgreedPrice
	}
	if req.Deadline != nil {
		o.Deadline = req.Deadline
	}
	o.CompletedAt = completedAt

	if next == domain.OrderCompleted {
		if err := s.users.IncrementCompletedOrders(ctx, o.MasterID); err != nil {
			log.Printf("increment_completed_orders_failed master_id=%d err=%v", o.MasterID, err)
		}
	}

	serviceTitle := s.serviceTitle(ctx, o.ServiceID)
	if err := s.notifications.NotifyOrderStatus(ctx, o.CustomerID, o.ID, serviceTitle, next); err != nil {
		log.Printf("notify_order_status_failed order_id=%d err=%v", o.ID, err)
	}

	return o, nil
}

func (s *Service) getParticipant(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !o.IsParticipant(userID) {
		return nil, ErrAccessDenied
	}
	return o, nil
}

func (s *Service) serviceTitle(ctx context.Context, serviceID int64) string {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return ""
	}
	return svc.Title
}

// enrich attaches snapshots, loading each distinct service and user once.
func (s *Service) enrich(ctx context.Context, items []domain.Order) []OrderResponse {
	serviceCache := make(map[int64]*ServiceSnapshot)
	userCache := make(map[int64]*ParticipantSnapshot)

	snapshotService := func(id int64) *ServiceSnapshot {
		if snap, ok := serviceCache[id]; ok {
			return snap
		}
		var snap *ServiceSnapshot
		if svc, err := s.services.GetByID(ctx, id); err == nil {
			snap = &ServiceSnapshot{
				ID:       svc.ID,
				Title:    svc.Title,
				Price:    svc.Price,
				Currency: svc.Currency,
			}
			if len(svc.Images) > 0 {
				snap.Image = svc.Images[0]
			}
		}
		serviceCache[id] = snap
		return snap
	}

	snapshotUser := func(id int64) *ParticipantSnapshot {
		if snap, ok := userCache[id]; ok {
			return snap
		}
		var snap *ParticipantSnapshot
		if u, err := s.users.GetByID(ctx, id); err == nil {
			snap = &ParticipantSnapshot{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
		}
		userCache[id] = snap
		return snap
	}

	out := make([]OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, OrderResponse{
			Order:    o,
			Service:  snapshotService(o.ServiceID),
			Customer: snapshotUser(o.CustomerID),
			Master:   snapshotUser(o.MasterID),
		})
	}
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
