package repository

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrHostCannotJoin   = errors.New("host cannot join their own session")
	ErrNotParticipant   = errors.New("user is not a participant of this session")
	ErrForbidden        = errors.New("user may not modify this session")
	ErrStoreUnavailable = errors.New("session store unavailable")
)
