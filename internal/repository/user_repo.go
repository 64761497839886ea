package repository

import (
	"context"
	"strings"
	"time"

	"craftmarket/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Email           string    `gorm:"column:email;uniqueIndex"`
	PasswordHash    string    `gorm:"column:password_hash"`
	Role            string    `gorm:"column:role"`
	Name            string    `gorm:"column:name"`
	Phone           *string   `gorm:"column:phone"`
	Bio             *string   `gorm:"column:bio"`
	Specializations []string  `gorm:"column:specializations;serializer:json"`
	AvatarURL       *string   `gorm:"column:avatar_url"`
	Rating          float64   `gorm:"column:rating"`
	TotalReviews    int       `gorm:"column:total_reviews"`
	CompletedOrders int       `gorm:"column:completed_orders"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone, bio, avatar string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.Bio != nil {
		bio = *m.Bio
	}
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}

	return &domain.User{
		ID:              m.ID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Role:            domain.UserRole(m.Role),
		Name:            m.Name,
		Phone:           phone,
		Bio:             bio,
		Specializations: m.Specializations,
		AvatarURL:       avatar,
		Rating:          m.Rating,
		TotalReviews:    m.TotalReviews,
		CompletedOrders: m.CompletedOrders,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var phone, bio, avatar *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	if u.Bio != "" {
		v := u.Bio
		bio = &v
	}
	if u.AvatarURL != "" {
		v := u.AvatarURL
		avatar = &v
	}

	return userModel{
		ID:              u.ID,
		Email:           email,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		Name:            u.Name,
		Phone:           phone,
		Bio:             bio,
		Specializations: u.Specializations,
		AvatarURL:       avatar,
		Rating:          u.Rating,
		TotalReviews:    u.TotalReviews,
		CompletedOrders: u.CompletedOrders,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// Update persists the editable profile fields. Select forces cleared
// values through ("" maps to NULL); a bare struct Updates would skip
// them as zero values.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	m.UpdatedAt = time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", u.ID).
		Select("name", "phone", "bio", "specializations", "avatar_url", "updated_at").
		Updates(&m)
	return tx.Error
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_url": avatarURL,
			"updated_at": time.Now().UTC(),
		}).Error
}

// SetRatingStats overwrites the master's review aggregates. Only the
// review aggregator calls this; the fields are never hand-edited.
func (r *UserRepository) SetRatingStats(ctx context.Context, masterID int64, rating float64, totalReviews int) error {
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", masterID).
		Updates(map[string]any{
			"rating":        rating,
			"total_reviews": totalReviews,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) IncrementCompletedOrders(ctx context.Context, masterID int64) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", masterID).
		UpdateColumn("completed_orders", gorm.Expr("completed_orders + 1")).Error
}
