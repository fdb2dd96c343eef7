package apperrors

import "errors"

var (
	ErrSprintNotFound  = errors.New("sprint not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidEstimate = errors.New("estimate must not be negative")
)
