package order

import (
	"time"

	"craftmarket/internal/domain"
)

type CreateOrderRequest struct {
	ServiceID     int64      `json:"service_id" binding:"required"`
	Description   string     `json:"description" binding:"required,min=10"`
	CustomerNotes string     `json:"customer_notes,omitempty"`
	Attachments   []string   `json:"attachments,omitempty"`
	AgreedPrice   *float64   `json:"agreed_price,omitempty" binding:"omitempty,gt=0"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

type UpdateStatusRequest struct {
	Status      string     `json:"status" binding:"required"`
	AgreedPrice *float64   `json:"agreed_price,omitempty" binding:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type ListQuery struct {
	Role   string `form:"role"`
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ServiceSnapshot is the denormalized listing view embedded in order reads.
type ServiceSnapshot struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Image    string  `json:"image,omitempty"`
}

type ParticipantSnapshot struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar,omitempty"`
}

type OrderResponse struct {
	domain.Order
	Service  *ServiceSnapshot     `json:"service,omitempty"`
	Customer *ParticipantSnapshot `json:"customer,omitempty"`
	Master   *ParticipantSnapshot `json:"master,omitempty"`
}

type ListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
