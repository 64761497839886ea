package review

import "errors"

var (
	ErrNotFound         = errors.New("review not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrOrderNotComplete = errors.New("order is not completed")
	ErrAlreadyReviewed  = errors.New("order already has a review")
	ErrAlreadyDisputed  = errors.New("review already disputed")
)
