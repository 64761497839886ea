package order

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceInactive   = errors.New("service is not accepting orders")
	ErrAccessDenied      = errors.New("not a participant of this order")
	ErrMasterOnly        = errors.New("only the master can change order status")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)
