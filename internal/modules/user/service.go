package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
)

type Service struct {
	users UserRepositoryInterface
}

func NewService(users UserRepositoryInterface) *Service {
	return &Service{users: users}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetPublicProfile returns a profile with contact details stripped.
func (s *Service) GetPublicProfile(ctx context.Context, id int64) (*domain.UserPublic, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	if req.Empty() {
		return nil, ErrEmptyRequest
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Specializations != nil {
		u.Specializations = req.Specializations
	}
	if req.Avatar != nil {
		u.AvatarURL = *req.Avatar
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
