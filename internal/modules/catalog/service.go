package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

const defaultCurrency = "RUB"

type Service struct {
	services ServiceRepositoryInterface
	users    UserReader
}

func NewService(services ServiceRepositoryInterface, users UserReader) *Service {
	return &Service{services: services, users: users}
}

func (s *Service) Create(ctx context.Context, masterID int64, req CreateServiceRequest) (*domain.Service, error) {
	category := domain.ServiceCategory(req.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	svc := &domain.Service{
		MasterID:     masterID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     category,
		Price:        req.Price,
		Currency:     currency,
		DurationDays: req.DurationDays,
		Images:       req.Images,
		IsActive:     true,
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Get returns a single listing and bumps its view counter.
func (s *Service) Get(ctx context.Context, id int64) (*ServiceResponse, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.services.IncrementViews(ctx, id); err != nil {
		log.Printf("increment_views_failed service_id=%d err=%v", id, err)
	} else {
		svc.Views++
	}

	resp := ServiceResponse{Service: *svc}
	if master, err := s.users.GetByID(ctx, svc.MasterID); err == nil {
		resp.Master = masterSummary(master)
	}
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	if q.Category != "" && !domain.ServiceCategory(q.Category).Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, q.Category)
	}

	limit, offset := clampPage(q.Limit, q.Offset)

	filter := repository.ServiceFilter{
		Category: q.Category,
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		SortBy:   q.SortBy,
	}

	items, total, err := s.services.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Services: s.enrich(ctx, items),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *Service) ListByMaster(ctx context.Context, masterID int64, limit, offset int) (*ListResponse, error) {
	limit, offset = clampPage(limit, offset)

	items, total, err := s.services.ListByMaster(ctx, masterID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Services: s.enrich(ctx, items),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (s *Service) Update(ctx context.Context, masterID, serviceID int64, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.getOwned(ctx, masterID, serviceID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		category := domain.ServiceCategory(*req.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
		}
		svc.Category = category
	}
	if req.Title != nil {
		svc.Title = *req.Title
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationDays != nil {
		svc.DurationDays = req.DurationDays
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Delete(ctx context.Context, masterID, serviceID int64) error {
	if _, err := s.getOwned(ctx, masterID, serviceID); err != nil {
		return err
	}
	return s.services.Delete(ctx, serviceID)
}

func (s *Service) getOwned(ctx context.Context, masterID, serviceID int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if svc.MasterID != masterID {
		return nil, ErrAccessDenied
	}
	return svc, nil
}

// enrich attaches master summaries, loading each distinct master once.
func (s *Service) enrich(ctx context.Context, items []domain.Service) []ServiceResponse {
	masters := make(map[int64]*MasterSummary)
	out := make([]ServiceResponse, 0, len(items))

	for _, svc := range items {
		summary, ok := masters[svc.MasterID]
		if !ok {
			if u, err := s.users.GetByID(ctx, svc.MasterID); err == nil {
				summary = masterSummary(u)
			}
			masters[svc.MasterID] = summary
		}
		out = append(out, ServiceResponse{Service: svc, Master: summary})
	}
	return out
}

func masterSummary(u *domain.User) *MasterSummary {
	return &MasterSummary{
		ID:           u.ID,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		Rating:       u.Rating,
		TotalReviews: u.TotalReviews,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
