package notification

import "errors"

var (
	ErrNotFound     = errors.New("notification not found")
	ErrAccessDenied = errors.New("access denied")
)
