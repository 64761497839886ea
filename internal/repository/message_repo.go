package repository

import (
	"context"
	"time"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	OrderID    int64     `gorm:"column:order_id;index:idx_messages_order_created"`
	SenderID   int64     `gorm:"column:sender_id"`
	ReceiverID int64     `gorm:"column:receiver_id;index"`
	Content    string    `gorm:"column:content"`
	IsRead     bool      `gorm:"column:is_read"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_messages_order_created"`
}

func (messageModel) TableName() string { return "messages" }

func toDomainMessage(m messageModel) *domain.Message {
	return &domain.Message{
		ID:         m.ID,
		OrderID:    m.OrderID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	m := messageModel{
		OrderID:    msg.OrderID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*msg = *toDomainMessage(m)
	return nil
}

// ListByOrder returns the order's chat log oldest-first.
func (r *MessageRepository) ListByOrder(ctx context.Context, orderID int64, limit, offset int) ([]domain.Message, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&messageModel{}).Where("order_id = ?", orderID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []messageModel
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Message, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainMessage(m))
	}
	return out, total, nil
}

func (r *MessageRepository) GetLastByOrder(ctx context.Context, orderID int64) (*domain.Message, error) {
	var m messageModel
	tx := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMessage(m), nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, orderID, receiverID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = ?", orderID, receiverID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips is_read on every unread message addressed to receiverID
// in the order and returns how many were flipped.
func (r *MessageRepository) MarkRead(ctx context.Context, orderID, receiverID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = ?", orderID, receiverID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}
