package retropak

import "errors"

var (
	ErrMalformedHeader   = errors.New("retropak: malformed header")
	ErrTruncatedPayload  = errors.New("retropak: truncated payload")
	ErrMissingTerminator = errors.New("retropak: missing string terminator")
	ErrUnknownIdentifier = errors.New("retropak: unknown identifier")
	ErrIndexOutOfRange   = errors.New("retropak: index out of range")
	ErrInvalidTag        = errors.New("retropak: type tag must be 4 bytes")
	ErrLimitExceeded     = errors.New("retropak: limit exceeded")
)
