package apperrors

import "errors"

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrMemberExists = errors.New("user is already a team member")
)
