package chat

import (
	"time"

	"craftmarket/internal/domain"
)

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type MessageResponse struct {
	domain.Message
	SenderName string `json:"sender_name,omitempty"`
}

type MessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ChatSummary is one row of the chat list: an order plus its latest
// message and the counterparty's public card.
type ChatSummary struct {
	OrderID      int64           `json:"order_id"`
	ServiceTitle string          `json:"service_title"`
	OrderStatus  string          `json:"order_status"`
	Participant  ParticipantCard `json:"participant"`
	LastMessage  *MessagePreview `json:"last_message,omitempty"`
	UnreadCount  int64           `json:"unread_count"`
}

type ParticipantCard struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar,omitempty"`
}

type MessagePreview struct {
	Content   string    `json:"content"`
	SenderID  int64     `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatListResponse struct {
	Chats []ChatSummary `json:"chats"`
}
