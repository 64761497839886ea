package chat

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrAccessDenied  = errors.New("not a participant of this order")
)
