package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUserNotFound         = errors.New("user not found")
	ErrRecordNotFound       = errors.New("shared record not found")
	ErrInvalidRole          = errors.New("role not permitted for this operation")
	ErrUnauthorized         = errors.New("user is not authorized")
	ErrNoActiveRelationship = errors.New("no active relationship")
)
