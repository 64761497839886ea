package auth

import "craftmarket/internal/domain"

type RegisterRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=6"`
	Role            string   `json:"role" binding:"required,oneof=customer master"`
	Phone           string   `json:"phone"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
