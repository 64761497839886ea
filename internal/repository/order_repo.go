package repository

import (
	"context"
	"errors"
	"time"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	ServiceID     int64      `gorm:"column:service_id;index"`
	CustomerID    int64      `gorm:"column:customer_id;index"`
	MasterID      int64      `gorm:"column:master_id;index"`
	Description   string     `gorm:"column:description"`
	CustomerNotes *string    `gorm:"column:customer_notes"`
	Attachments   []string   `gorm:"column:attachments;serializer:json"`
	Status        string     `gorm:"column:status;index"`
	AgreedPrice   *float64   `gorm:"column:agreed_price"`
	Deadline      *time.Time `gorm:"column:deadline"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
}

func (orderModel) TableName() string { return "orders" }

func toDomainOrder(m orderModel) *domain.Order {
	var notes string
	if m.CustomerNotes != nil {
		notes = *m.CustomerNotes
	}
	return &domain.Order{
		ID:            m.ID,
		ServiceID:     m.ServiceID,
		CustomerID:    m.CustomerID,
		MasterID:      m.MasterID,
		Description:   m.Description,
		CustomerNotes: notes,
		Attachments:   m.Attachments,
		Status:        domain.OrderStatus(m.Status),
		AgreedPrice:   m.AgreedPrice,
		Deadline:      m.Deadline,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CompletedAt:   m.CompletedAt,
	}
}

func toOrderModel(o *domain.Order) orderModel {
	var notes *string
	if o.CustomerNotes != "" {
		v := o.CustomerNotes
		notes = &v
	}
	return orderModel{
		ID:            o.ID,
		ServiceID:     o.ServiceID,
		CustomerID:    o.CustomerID,
		MasterID:      o.MasterID,
		Description:   o.Description,
		CustomerNotes: notes,
		Attachments:   o.Attachments,
		Status:        string(o.Status),
		AgreedPrice:   o.AgreedPrice,
		Deadline:      o.Deadline,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

// OrderFilter narrows a participant's order listing.
type OrderFilter struct {
	Role   string // "customer", "master" or "" for both sides
	Status string
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m := toOrderModel(o)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*o = *toDomainOrder(m)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOrder(m), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, f OrderFilter, limit, offset int) ([]domain.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&orderModel{})
	switch f.Role {
	case "customer":
		q = q.Where("customer_id = ?", userID)
	case "master":
		q = q.Where("master_id = ?", userID)
	default:
		q = q.Where("customer_id = ? OR master_id = ?", userID, userID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []orderModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOrder(m))
	}
	return out, total, nil
}

// ListByParticipant returns every order the user takes part in, newest
// first, without pagination. Used by the chat summary projection.
func (r *OrderRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.Order, error) {
	var rows []orderModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ? OR master_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOrder(m))
	}
	return out, nil
}

// UpdateStatus merges the status payload into the order row. completedAt
// is only set on the transition to completed.
// ErrStaleStatus reports that the order left the expected status between
// the caller's read and the update.
var ErrStaleStatus = errors.New("order status changed concurrently")

// UpdateStatus applies the transition only while the row is still in the
// expected status, so two racing updates cannot both win.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, agreedPrice *float64, deadline, completedAt *time.Time) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if agreedPrice != nil {
		updates["agreed_price"] = *agreedPrice
	}
	if deadline != nil {
		updates["deadline"] = *deadline
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	tx := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
