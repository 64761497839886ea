package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleMaster   UserRole = "master"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            UserRole  `json:"role"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Specializations []string  `json:"specializations,omitempty"`
	AvatarURL       string    `json:"avatar,omitempty"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	CompletedOrders int       `json:"completed_orders"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserPublic is the profile shape exposed to other users: no email, no phone.
type UserPublic struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	AvatarURL       string    `json:"avatar,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Specializations []string  `json:"specializations,omitempty"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	CompletedOrders int       `json:"completed_orders"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) Public() *UserPublic {
	return &UserPublic{
		ID:              u.ID,
		Name:            u.Name,
		AvatarURL:       u.AvatarURL,
		Bio:             u.Bio,
		Specializations: u.Specializations,
		Rating:          u.Rating,
		TotalReviews:    u.TotalReviews,
		CompletedOrders: u.CompletedOrders,
		CreatedAt:       u.CreatedAt,
	}
}
