package upload

import "errors"

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileTooLarge     = errors.New("file is too large")
	ErrInvalidExtension = errors.New("file type not allowed")
	ErrServiceNotFound  = errors.New("service not found")
	ErrNotOwner         = errors.New("not the owner")
	ErrTooManyImages    = errors.New("image limit reached")
	ErrImageNotFound    = errors.New("image not found on service")
)
