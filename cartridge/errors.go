package cartridge

import "errors"

// Sentinel load-time errors, named so callers can errors.Is against a
// specific failure kind.
var (
	ErrBadMagic          = errors.New("cartridge: bad iNES magic")
	ErrTruncated         = errors.New("cartridge: truncated ROM data")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")
)
