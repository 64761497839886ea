package repository

import (
	"context"
	"strings"
	"time"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	MasterID     int64     `gorm:"column:master_id;index"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description"`
	Category     string    `gorm:"column:category;index"`
	Price        float64   `gorm:"column:price"`
	Currency     string    `gorm:"column:currency"`
	DurationDays *int      `gorm:"column:duration_days"`
	Images       []string  `gorm:"column:images;serializer:json"`
	IsActive     bool      `gorm:"column:is_active;index"`
	Views        int64     `gorm:"column:views"`
	OrdersCount  int64     `gorm:"column:orders_count"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:           m.ID,
		MasterID:     m.MasterID,
		Title:        m.Title,
		Description:  m.Description,
		Category:     domain.ServiceCategory(m.Category),
		Price:        m.Price,
		Currency:     m.Currency,
		DurationDays: m.DurationDays,
		Images:       m.Images,
		IsActive:     m.IsActive,
		Views:        m.Views,
		OrdersCount:  m.OrdersCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:           s.ID,
		MasterID:     s.MasterID,
		Title:        s.Title,
		Description:  s.Description,
		Category:     string(s.Category),
		Price:        s.Price,
		Currency:     s.Currency,
		DurationDays: s.DurationDays,
		Images:       s.Images,
		IsActive:     s.IsActive,
		Views:        s.Views,
		OrdersCount:  s.OrdersCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ServiceFilter narrows the public listing query. Zero values mean "no filter".
type ServiceFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string // "created_at" (default, desc) or "price" (asc)
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter, limit, offset int) ([]domain.Service, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&serviceModel{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if f.SortBy == "price" {
		order = "price ASC"
	}

	var rows []serviceModel
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out, total, nil
}

func (r *ServiceRepository) ListByMaster(ctx context.Context, masterID int64, limit, offset int) ([]domain.Service, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&serviceModel{}).
		Where("master_id = ? AND is_active = ?", masterID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []serviceModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out, total, nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", s.ID).
		Select("title", "description", "category", "price", "currency",
			"duration_days", "images", "is_active", "updated_at").
		Updates(&m)
	return tx.Error
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&serviceModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ServiceRepository) SetImages(ctx context.Context, id int64, images []string) error {
	return r.db.WithContext(ctx).
		Model(&serviceModel{ID: id}).
		Select("images", "updated_at").
		Updates(&serviceModel{Images: images, UpdatedAt: time.Now().UTC()}).Error
}

// IncrementViews bumps the public read counter in place, the relational
// rendition of the document store's atomic increment.
func (r *ServiceRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *ServiceRepository) IncrementOrdersCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", id).
		UpdateColumn("orders_count", gorm.Expr("orders_count + 1")).Error
}
