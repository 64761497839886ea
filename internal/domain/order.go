package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAccepted   OrderStatus = "accepted"
	OrderRejected   OrderStatus = "rejected"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the full set of allowed status moves. Anything not
// listed here is rejected; completed, rejected and cancelled have no exits.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderAccepted, OrderRejected, OrderCancelled},
	OrderAccepted:   {OrderInProgress, OrderCompleted, OrderCancelled},
	OrderInProgress: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAccepted, OrderRejected, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order links one customer, one master and one service. MasterID is
// derived from the service at creation time and never changes.
type Order struct {
	ID            int64       `json:"id"`
	ServiceID     int64       `json:"service_id"`
	CustomerID    int64       `json:"customer_id"`
	MasterID      int64       `json:"master_id"`
	Description   string      `json:"description"`
	CustomerNotes string      `json:"customer_notes,omitempty"`
	Attachments   []string    `json:"attachments,omitempty"`
	Status        OrderStatus `json:"status"`
	AgreedPrice   *float64    `json:"agreed_price,omitempty"`
	Deadline      *time.Time  `json:"deadline,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

// IsParticipant reports whether userID is the order's customer or master.
func (o *Order) IsParticipant(userID int64) bool {
	return o.CustomerID == userID || o.MasterID == userID
}

// OtherParticipant returns the counterparty of userID in the order.
func (o *Order) OtherParticipant(userID int64) int64 {
	if userID == o.CustomerID {
		return o.MasterID
	}
	return o.CustomerID
}
