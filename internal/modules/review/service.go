package review

import (
	"context"
	"errors"
	"log"
	"math"

	"gorm.io/gorm"

	"craftmarket/internal/domain"
)

type Service struct {
	reviews       ReviewRepositoryInterface
	orders        OrderReader
	users         UserWriter
	notifications NotificationSender
}

func NewService(reviews ReviewRepositoryInterface, orders OrderReader, users UserWriter, notifications NotificationSender) *Service {
	return &Service{
		reviews:       reviews,
		orders:        orders,
		users:         users,
		notifications: notifications,
	}
}

// aggregateRating computes the mean over ratings rounded to 2 decimal
// places, and the review count. Disputed reviews still count until an
// admin removes them.
func aggregateRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*100) / 100, len(ratings)
}

// Create attaches the single review to a completed order and recomputes
// the master's rating aggregate.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateReviewRequest) (*domain.Review, error) {
	o, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrAccessDenied
	}
	if o.Status != domain.OrderCompleted {
		return nil, ErrOrderNotComplete
	}

	exists, err := s.reviews.ExistsByOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		OrderID:    o.ID,
		MasterID:   o.MasterID,
		CustomerID: customerID,
		ServiceID:  o.ServiceID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	// The unique index on order_id closes the race between the existence
	// check and the insert.
	if err := s.reviews.Create(ctx, rv); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.recomputeRating(ctx, o.MasterID)

	if err := s.notifications.NotifyNewReview(ctx, o.MasterID, o.ID, rv.Rating); err != nil {
		log.Printf("notify_new_review_failed review_id=%d err=%v", rv.ID, err)
	}

	return rv, nil
}

// Dispute flags a review once. Only the reviewed master may dispute.
func (s *Service) Dispute(ctx context.Context, masterID, reviewID int64, req DisputeRequest) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rv.MasterID != masterID {
		return nil, ErrAccessDenied
	}
	if rv.IsDisputed {
		return nil, ErrAlreadyDisputed
	}

	updated, err := s.reviews.MarkDisputed(ctx, reviewID, req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlreadyDisputed
		}
		return nil, err
	}

	if err := s.notifications.NotifyReviewDisputed(ctx, updated.CustomerID, updated.OrderID); err != nil {
		log.Printf("notify_review_disputed_failed review_id=%d err=%v", reviewID, err)
	}

	return updated, nil
}

func (s *Service) GetByOrder(ctx context.Context, orderID int64) (*domain.Review, error) {
	rv, err := s.reviews.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByMaster(ctx context.Context, masterID int64, limit, offset int) (*ListResponse, error) {
	limit, offset = clampPage(limit, offset)

	items, total, err := s.reviews.ListByMaster(ctx, masterID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Reviews: s.enrich(ctx, items),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func (s *Service) ListByService(ctx context.Context, serviceID int64, sort string, limit, offset int) (*ListResponse, error) {
	limit, offset = clampPage(limit, offset)

	items, total, err := s.reviews.ListByService(ctx, serviceID, sort, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Reviews: s.enrich(ctx, items),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// recomputeRating overwrites the master's aggregate from all stored
// ratings. Failure here leaves the aggregate stale until the next review.
func (s *Service) recomputeRating(ctx context.Context, masterID int64) {
	ratings, err := s.reviews.RatingsByMaster(ctx, masterID)
	if err != nil {
		log.Printf("rating_recompute_failed master_id=%d err=%v", masterID, err)
		return
	}
	rating, total := aggregateRating(ratings)
	if err := s.users.SetRatingStats(ctx, masterID, rating, total); err != nil {
		log.Printf("rating_recompute_failed master_id=%d err=%v", masterID, err)
	}
}

func (s *Service) enrich(ctx context.Context, items []domain.Review) []ReviewResponse {
	reviewers := make(map[int64]*ReviewerSummary)
	out := make([]ReviewResponse, 0, len(items))

	for _, rv := range items {
		summary, ok := reviewers[rv.CustomerID]
		if !ok {
			if u, err := s.users.GetByID(ctx, rv.CustomerID); err == nil {
				summary = &ReviewerSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
			}
			reviewers[rv.CustomerID] = summary
		}
		out = append(out, ReviewResponse{Review: rv, Reviewer: summary})
	}
	return out
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
