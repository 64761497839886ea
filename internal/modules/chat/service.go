package chat

import (
	"context"
	"errors"
	"log"
	"sort"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
)

type Service struct {
	messages      MessageRepositoryInterface
	orders        OrderReader
	services      ServiceReader
	users         UserReader
	notifications NotificationSender
	broadcaster   Broadcaster
}

func NewService(messages MessageRepositoryInterface, orders OrderReader, services ServiceReader, users UserReader, notifications NotificationSender, broadcaster Broadcaster) *Service {
	return &Service{
		messages:      messages,
		orders:        orders,
		services:      services,
		users:         users,
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

// Send appends a message to the order's chat log. The receiver is always
// the counterparty; the client never supplies it.
func (s *Service) Send(ctx context.Context, senderID, orderID int64, req SendMessageRequest) (*domain.Message, error) {
	o, err := s.getParticipant(ctx, senderID, orderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		OrderID:    orderID,
		SenderID:   senderID,
		ReceiverID: o.OtherParticipant(senderID),
		Content:    req.Content,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyNewMessage(ctx, msg.ReceiverID, orderID); err != nil {
		log.Printf("notify_new_message_failed order_id=%d err=%v", orderID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(RoomID(orderID), &WSEvent{
			Type:    EventNewMessage,
			RoomID:  RoomID(orderID),
			Payload: msg,
		})
	}

	return msg, nil
}

// ListByOrder returns the chat log oldest-first with sender names attached.
func (s *Service) ListByOrder(ctx context.Context, userID, orderID int64, limit, offset int) (*MessagesResponse, error) {
	if _, err := s.getParticipant(ctx, userID, orderID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)

	items, total, err := s.messages.ListByOrder(ctx, orderID, limit, offset)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string)
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		name, ok := names[m.SenderID]
		if !ok {
			if u, err := s.users.GetByID(ctx, m.SenderID); err == nil {
				name = u.Name
			}
			names[m.SenderID] = name
		}
		out = append(out, MessageResponse{Message: m, SenderName: name})
	}

	return &MessagesResponse{Messages: out, Total: total, Limit: limit, Offset: offset}, nil
}

// MarkRead flips every message addressed to userID in the order and
// returns how many were flipped.
func (s *Service) MarkRead(ctx context.Context, userID, orderID int64) (int64, error) {
	if _, err := s.getParticipant(ctx, userID, orderID); err != nil {
		return 0, err
	}

	n, err := s.messages.MarkRead(ctx, orderID, userID)
	if err != nil {
		return 0, err
	}

	if n > 0 && s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(RoomID(orderID), &WSEvent{
			Type:    EventRead,
			RoomID:  RoomID(orderID),
			Payload: map[string]int64{"user_id": userID},
		})
	}

	return n, nil
}

// Chats builds the chat list: one row per order the user participates in,
// newest activity first.
func (s *Service) Chats(ctx context.Context, userID int64) (*ChatListResponse, error) {
	orders, err := s.orders.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	chats := make([]ChatSummary, 0, len(orders))
	for _, o := range orders {
		row := ChatSummary{
			OrderID:     o.ID,
			OrderStatus: string(o.Status),
		}

		if svc, err := s.services.GetByID(ctx, o.ServiceID); err == nil {
			row.ServiceTitle = svc.Title
		}

		otherID := o.OtherParticipant(userID)
		if u, err := s.users.GetByID(ctx, otherID); err == nil {
			row.Participant = ParticipantCard{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
		} else {
			row.Participant = ParticipantCard{ID: otherID}
		}

		if last, err := s.messages.GetLastByOrder(ctx, o.ID); err == nil {
			row.LastMessage = &MessagePreview{
				Content:   last.Content,
				SenderID:  last.SenderID,
				CreatedAt: last.CreatedAt,
			}
		}

		if unread, err := s.messages.CountUnread(ctx, o.ID, userID); err == nil {
			row.UnreadCount = unread
		}

		chats = append(chats, row)
	}

	// Newest activity first; orders without messages fall back to
	// creation order at the tail.
	sort.SliceStable(chats, func(i, j int) bool {
		li, lj := chats[i].LastMessage, chats[j].LastMessage
		switch {
		case li != nil && lj != nil:
			return li.CreatedAt.After(lj.CreatedAt)
		case li != nil:
			return true
		default:
			return false
		}
	})

	return &ChatListResponse{Chats: chats}, nil
}

// RoomsFor lists the hub rooms a user should start subscribed to.
func (s *Service) RoomsFor(ctx context.Context, userID int64) []string {
	orders, err := s.orders.ListByParticipant(ctx, userID)
	if err != nil {
		return nil
	}
	rooms := make([]string, 0, len(orders))
	for _, o := range orders {
		rooms = append(rooms, RoomID(o.ID))
	}
	return rooms
}

func (s *Service) getParticipant(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !o.IsParticipant(userID) {
		return nil, ErrAccessDenied
	}
	return o, nil
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
