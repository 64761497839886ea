package user

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmptyRequest = errors.New("nothing to update")
)
