package domain

import "time"

// NotificationType is a closed enumeration; lifecycle events without a
// mapped type produce no notification.
type NotificationType string

const (
	NotifNewOrder       NotificationType = "new_order"
	NotifOrderAccepted  NotificationType = "order_accepted"
	NotifOrderRejected  NotificationType = "order_rejected"
	NotifOrderCompleted NotificationType = "order_completed"
	NotifNewMessage     NotificationType = "new_message"
	NotifNewReview      NotificationType = "new_review"
	NotifReviewDisputed NotificationType = "review_disputed"
)

// Notification is an append-only inbox entry for a single user.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Link      string           `json:"link,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
