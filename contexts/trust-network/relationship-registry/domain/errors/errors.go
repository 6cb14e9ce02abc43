package errors

import "errors"

var (
	ErrInvalidRequest             = errors.New("invalid request")
	ErrUserNotFound               = errors.New("user not found")
	ErrRelationshipNotFound       = errors.New("relationship not found")
	ErrInvitationNotFound         = errors.New("invitation not found")
	ErrInvalidRole                = errors.New("role does not match relationship type")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrDuplicateRelationship      = errors.New("relationship already exists")
	ErrDuplicatePendingInvitation = errors.New("pending invitation already exists for email")
	ErrUserAlreadyExists          = errors.New("user already exists")
	ErrInvalidStateTransition     = errors.New("invalid state transition")
	ErrExpiredInvitation          = errors.New("invitation expired")
	ErrEmailMismatch              = errors.New("email does not match invitation")
	ErrRoleMismatch               = errors.New("role does not match invitation")
	ErrRepositoryInvariantBroke   = errors.New("repository invariant violated")
)
