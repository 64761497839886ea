package domain

import "time"

// Review is the single review attached to a completed order. Immutable
// once created except for the dispute fields, which flip exactly once.
type Review struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	MasterID      int64     `json:"master_id"`
	CustomerID    int64     `json:"customer_id"`
	ServiceID     int64     `json:"service_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	IsDisputed    bool      `json:"is_disputed"`
	DisputeReason string    `json:"dispute_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
