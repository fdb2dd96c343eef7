package apperrors

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidID     = errors.New("invalid id")
	ErrOwnerNotFound = errors.New("owner not found")
)

var ErrReferenceNotFound = errors.New("referenced row not found")
