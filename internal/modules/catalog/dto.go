package catalog

import "craftmarket/internal/domain"

type CreateServiceRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=200"`
	Description  string   `json:"description" binding:"required,min=20"`
	Category     string   `json:"category" binding:"required"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Currency     string   `json:"currency,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty" binding:"omitempty,gt=0"`
	Images       []string `json:"images,omitempty"`
}

type UpdateServiceRequest struct {
	Title        *string  `json:"title,omitempty" binding:"omitempty,min=5,max=200"`
	Description  *string  `json:"description,omitempty" binding:"omitempty,min=20"`
	Category     *string  `json:"category,omitempty"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	DurationDays *int     `json:"duration_days,omitempty" binding:"omitempty,gt=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type ListQuery struct {
	Category string   `form:"category"`
	Search   string   `form:"search"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
	SortBy   string   `form:"sort_by"`
	Limit    int      `form:"limit"`
	Offset   int      `form:"offset"`
}

// MasterSummary is the listing-card view of a service owner.
type MasterSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AvatarURL    string  `json:"avatar,omitempty"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}

type ServiceResponse struct {
	domain.Service
	Master *MasterSummary `json:"master,omitempty"`
}

type ListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
