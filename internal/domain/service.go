package domain

import "time"

type ServiceCategory string

const (
	CategoryKnitting    ServiceCategory = "knitting"
	CategoryEmbroidery  ServiceCategory = "embroidery"
	CategorySewing      ServiceCategory = "sewing"
	CategoryCrochet     ServiceCategory = "crochet"
	CategoryJewelry     ServiceCategory = "jewelry"
	CategoryPottery     ServiceCategory = "pottery"
	CategoryWoodworking ServiceCategory = "woodworking"
	CategoryPainting    ServiceCategory = "painting"
	CategorySoapMaking  ServiceCategory = "soap_making"
	CategoryOther       ServiceCategory = "other"
)

var serviceCategories = map[ServiceCategory]bool{
	CategoryKnitting:    true,
	CategoryEmbroidery:  true,
	CategorySewing:      true,
	CategoryCrochet:     true,
	CategoryJewelry:     true,
	CategoryPottery:     true,
	CategoryWoodworking: true,
	CategoryPainting:    true,
	CategorySoapMaking:  true,
	CategoryOther:       true,
}

func (c ServiceCategory) Valid() bool { return serviceCategories[c] }

// Service is a published listing owned by exactly one master.
type Service struct {
	ID           int64           `json:"id"`
	MasterID     int64           `json:"master_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     ServiceCategory `json:"category"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	DurationDays *int            `json:"duration_days,omitempty"`
	Images       []string        `json:"images,omitempty"`
	IsActive     bool            `json:"is_active"`
	Views        int64           `json:"views"`
	OrdersCount  int64           `json:"orders_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
