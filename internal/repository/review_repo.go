package repository

import (
	"context"
	"time"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	OrderID       int64     `gorm:"column:order_id;uniqueIndex"`
	MasterID      int64     `gorm:"column:master_id;index"`
	CustomerID    int64     `gorm:"column:customer_id"`
	ServiceID     int64     `gorm:"column:service_id;index"`
	Rating        int       `gorm:"column:rating"`
	Comment       *string   `gorm:"column:comment"`
	IsDisputed    bool      `gorm:"column:is_disputed"`
	DisputeReason *string   `gorm:"column:dispute_reason"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment, reason string
	if m.Comment != nil {
		comment = *m.Comment
	}
	if m.DisputeReason != nil {
		reason = *m.DisputeReason
	}
	return &domain.Review{
		ID:            m.ID,
		OrderID:       m.OrderID,
		MasterID:      m.MasterID,
		CustomerID:    m.CustomerID,
		ServiceID:     m.ServiceID,
		Rating:        m.Rating,
		Comment:       comment,
		IsDisputed:    m.IsDisputed,
		DisputeReason: reason,
		CreatedAt:     m.CreatedAt,
	}
}

func toReviewModel(rv *domain.Review) reviewModel {
	var comment, reason *string
	if rv.Comment != "" {
		v := rv.Comment
		comment = &v
	}
	if rv.DisputeReason != "" {
		v := rv.DisputeReason
		reason = &v
	}
	return reviewModel{
		ID:            rv.ID,
		OrderID:       rv.OrderID,
		MasterID:      rv.MasterID,
		CustomerID:    rv.CustomerID,
		ServiceID:     rv.ServiceID,
		Rating:        rv.Rating,
		Comment:       comment,
		IsDisputed:    rv.IsDisputed,
		DisputeReason: reason,
		CreatedAt:     rv.CreatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsByOrder(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

// RatingsByMaster returns every rating value for the master. The
// aggregator recomputes from this full set on each submission.
func (r *ReviewRepository) RatingsByMaster(ctx context.Context, masterID int64) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("master_id = ?", masterID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *ReviewRepository) ListByMaster(ctx context.Context, masterID int64, limit, offset int) ([]domain.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&reviewModel{}).Where("master_id = ?", masterID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, total, nil
}

func (r *ReviewRepository) ListByService(ctx context.Context, serviceID int64, sort string, limit, offset int) ([]domain.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	order := "created_at DESC"
	switch sort {
	case "highest":
		order = "rating DESC"
	case "lowest":
		order = "rating ASC"
	}

	q := r.db.WithContext(ctx).Model(&reviewModel{}).Where("service_id = ?", serviceID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, total, nil
}

// MarkDisputed flips the dispute flag false -> true. RowsAffected 0 means
// the review was already disputed (or gone) and the caller maps that to
// a conflict.
func (r *ReviewRepository) MarkDisputed(ctx context.Context, reviewID int64, reason string) (*domain.Review, error) {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ? AND is_disputed = ?", reviewID, false).
		Updates(map[string]any{
			"is_disputed":    true,
			"dispute_reason": reason,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, reviewID)
}
