package bases

import "errors"

var (
	// ErrResourceMissing is returned when the integral table resource
	// cannot be located. Fatal at startup, never retried.
	ErrResourceMissing = errors.New("integral table resource missing")
	// ErrResourceCorrupt is returned when the integral table resource
	// does not deserialize to the expected 8 named tables.
	ErrResourceCorrupt = errors.New("integral table resource corrupt")
	// ErrInvalidArgument is returned for stride precondition violations,
	// non-power-of-two stride ratios and malformed table queries.
	ErrInvalidArgument = errors.New("invalid argument")
)
