package catalog

import "errors"

var (
	ErrNotFound     = errors.New("service not found")
	ErrAccessDenied = errors.New("not the owner of this service")
	ErrValidation   = errors.New("invalid service data")
)
