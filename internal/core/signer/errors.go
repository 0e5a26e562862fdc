package signer

import "errors"

var (
	// ErrTokenInvalid is returned by Verify for any token it will not
	// accept: bad signature, malformed payload, missing claims, outside
	// the validity window, or a replay. Verification fails closed; the
	// wrapped detail is for logs, not for clients.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrMissingSecret is returned when a Signer is constructed without
	// a signing secret.
	ErrMissingSecret = errors.New("signing secret is required")
)
