package review

import "craftmarket/internal/domain"

type CreateReviewRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" binding:"omitempty,max=2000"`
}

type DisputeRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=1000"`
}

// ReviewerSummary is the public face of the customer attached to a review.
type ReviewerSummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar,omitempty"`
}

type ReviewResponse struct {
	domain.Review
	Reviewer *ReviewerSummary `json:"reviewer,omitempty"`
}

type ListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
