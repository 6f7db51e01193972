package auth

import (
	"errors"

	"lawfirm-cms/internal/apperr"
)

// Messages are part of the HTTP contract.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgRateLimited        = "Too many login attempts, please try again after 15 minutes"
	MsgUnauthenticated    = "Access denied"
	MsgForbidden          = "Invalid token"
	MsgPermissionDenied   = "Permission denied"
)

var (
	// ErrInvalidCredentials is returned identically for unknown usernames and
	// wrong passwords.
	ErrInvalidCredentials = apperr.Auth(MsgInvalidCredentials)
	ErrRateLimited        = apperr.Auth(MsgRateLimited)
	ErrUnauthenticated    = apperr.Auth(MsgUnauthenticated)
	ErrForbidden          = apperr.Auth(MsgForbidden)
)

// IsAuthError reports whether err belongs to the auth family.
func IsAuthError(err error) bool { return errors.Is(err, apperr.ErrAuth) }
