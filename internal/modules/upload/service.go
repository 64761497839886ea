package upload

import (
	"context"
	"errors"
	"mime/multipart"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
)

type Service struct {
	storage  *Storage
	users    UserRepositoryInterface
	services ServiceRepositoryInterface
}

func NewService(storage *Storage, users UserRepositoryInterface, services ServiceRepositoryInterface) *Service {
	return &Service{storage: storage, users: users, services: services}
}

// UploadAvatar stores a new avatar, points the user at it and removes the
// previous file.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Save(fileHeader, "avatars")
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		s.storage.Remove(url)
		return "", err
	}

	if u.AvatarURL != "" {
		s.storage.Remove(u.AvatarURL)
	}

	return url, nil
}

// UploadServiceImage appends one image to a listing owned by masterID.
func (s *Service) UploadServiceImage(ctx context.Context, masterID, serviceID int64, fileHeader *multipart.FileHeader) (string, error) {
	svc, err := s.getOwned(ctx, masterID, serviceID)
	if err != nil {
		return "", err
	}
	if len(svc.Images) >= maxServiceImages {
		return "", ErrTooManyImages
	}

	url, err := s.storage.Save(fileHeader, "services")
	if err != nil {
		return "", err
	}

	images := append(svc.Images, url)
	if err := s.services.SetImages(ctx, serviceID, images); err != nil {
		s.storage.Remove(url)
		return "", err
	}

	return url, nil
}

// DeleteServiceImage detaches an image URL from a listing and removes the
// file.
func (s *Service) DeleteServiceImage(ctx context.Context, masterID, serviceID int64, url string) error {
	svc, err := s.getOwned(ctx, masterID, serviceID)
	if err != nil {
		return err
	}

	images := make([]string, 0, len(svc.Images))
	found := false
	for _, img := range svc.Images {
		if img == url {
			found = true
			continue
		}
		images = append(images, img)
	}
	if !found {
		return ErrImageNotFound
	}

	if err := s.services.SetImages(ctx, serviceID, images); err != nil {
		return err
	}

	s.storage.Remove(url)
	return nil
}

func (s *Service) getOwned(ctx context.Context, masterID, serviceID int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if svc.MasterID != masterID {
		return nil, ErrNotOwner
	}
	return svc, nil
}
